package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// RouteInfoID is the fixed key of the singleton route_info record.
const RouteInfoID = 1

// ErrRouteInfoNotFound is returned when the route_info record has never been written.
var ErrRouteInfoNotFound = errors.New("route info not found")

// Database is the subset of pgxpool.Pool the repository needs.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the persistence gateway to the remote store.
// Every method is a single round trip with no retry.
type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is the gateway contract the stores depend on.
type Interface interface {
	LoadAllPois(ctx context.Context) ([]models.Poi, error)
	UpsertPoi(ctx context.Context, poi models.Poi) (string, error)
	DeletePoi(ctx context.Context, id string) error
	LoadRouteInfo(ctx context.Context) (models.RouteInfo, error)
	SaveRouteInfo(ctx context.Context, info models.RouteInfo) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
