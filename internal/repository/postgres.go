package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LoadAllPois retrieves every POI in creation order.
func (r *Repository) LoadAllPois(ctx context.Context) ([]models.Poi, error) {
	query := `
		SELECT id, name, type, lat, lng, description, image_url, phone, website,
			opening_hours, address, zip_code, city
		FROM pois
		ORDER BY created_at ASC, id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pois: %w", err)
	}
	defer rows.Close()

	pois := []models.Poi{}
	for rows.Next() {
		var (
			poi     models.Poi
			poiType string
		)
		if errScan := rows.Scan(
			&poi.ID, &poi.Name, &poiType, &poi.Position.Lat, &poi.Position.Lng, &poi.Description,
			&poi.ImageURL, &poi.Phone, &poi.Website, &poi.OpeningHours, &poi.Address, &poi.ZipCode, &poi.City,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan poi: %w", errScan)
		}
		poi.Type = models.PoiType(poiType)
		pois = append(pois, poi)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "POIs loaded from the remote store", "count", len(pois))

	return pois, nil
}

// UpsertPoi writes a POI and returns its identifier. A POI without an id gets a
// freshly generated one; an existing id is overwritten in full (last write wins).
func (r *Repository) UpsertPoi(ctx context.Context, poi models.Poi) (string, error) {
	query := `
		INSERT INTO pois (id, name, type, lat, lng, description, image_url, phone, website,
			opening_hours, address, zip_code, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			opening_hours = EXCLUDED.opening_hours,
			address = EXCLUDED.address,
			zip_code = EXCLUDED.zip_code,
			city = EXCLUDED.city;
	`

	id := poi.ID
	if poi.IsNew() {
		id = uuid.NewString()
	}

	_, err := r.db.Exec(ctx, query,
		id, poi.Name, string(poi.Type), poi.Position.Lat, poi.Position.Lng, poi.Description,
		poi.ImageURL, poi.Phone, poi.Website, poi.OpeningHours, poi.Address, poi.ZipCode, poi.City,
	)
	if err != nil {
		return "", fmt.Errorf("failed to upsert poi: %w", err)
	}

	r.log.DebugContext(ctx, "POI written to the remote store", "id", id, "created", poi.IsNew())

	return id, nil
}

// DeletePoi removes a POI. Deleting an id the store does not know is not an error.
func (r *Repository) DeletePoi(ctx context.Context, id string) error {
	query := `DELETE FROM pois WHERE id = $1;`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete poi: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.log.WarnContext(ctx, "POI to delete was already absent from the remote store", "id", id)
	}

	return nil
}

// LoadRouteInfo reads the singleton route_info record.
// It returns ErrRouteInfoNotFound when the record has never been saved.
func (r *Repository) LoadRouteInfo(ctx context.Context) (models.RouteInfo, error) {
	query := `
		SELECT distance, duration, difficulty, description, partner_logos
		FROM route_info
		WHERE id = $1;
	`

	var (
		info  models.RouteInfo
		logos []string
	)
	err := r.db.QueryRow(ctx, query, RouteInfoID).
		Scan(&info.Distance, &info.Duration, &info.Difficulty, &info.Description, &logos)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RouteInfo{}, ErrRouteInfoNotFound
	}
	if err != nil {
		return models.RouteInfo{}, fmt.Errorf("failed to load route info: %w", err)
	}

	info.PartnerLogos = models.ParseLogos(logos)

	return info, nil
}

// SaveRouteInfo overwrites the singleton route_info record.
func (r *Repository) SaveRouteInfo(ctx context.Context, info models.RouteInfo) error {
	query := `
		INSERT INTO route_info (id, distance, duration, difficulty, description, partner_logos, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			distance = EXCLUDED.distance,
			duration = EXCLUDED.duration,
			difficulty = EXCLUDED.difficulty,
			description = EXCLUDED.description,
			partner_logos = EXCLUDED.partner_logos,
			updated_at = now();
	`

	_, err := r.db.Exec(ctx, query,
		RouteInfoID, info.Distance, info.Duration, info.Difficulty, info.Description, info.PartnerLogos.Strings(),
	)
	if err != nil {
		return fmt.Errorf("failed to save route info: %w", err)
	}

	return nil
}
