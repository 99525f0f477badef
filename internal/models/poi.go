package models

import (
	"fmt"
	"strings"
)

// PoiType is the closed category set of a point of interest.
type PoiType string

const (
	PoiTypeCastle     PoiType = "castle"
	PoiTypeNature     PoiType = "nature"
	PoiTypeRestaurant PoiType = "restaurant"
	PoiTypeVillage    PoiType = "village"
	PoiTypeFarm       PoiType = "farm"
)

// Valid reports whether t belongs to the category set.
func (t PoiType) Valid() bool {
	switch t {
	case PoiTypeCastle, PoiTypeNature, PoiTypeRestaurant, PoiTypeVillage, PoiTypeFarm:
		return true
	default:
		return false
	}
}

// Poi is a named place shown alongside the route.
// An empty ID means the record has not been persisted yet.
// An empty Description means "not yet described"; whitespace is a real description.
type Poi struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         PoiType    `json:"type"`
	Position     Coordinate `json:"position"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Website      string     `json:"website,omitempty"`
	OpeningHours string     `json:"openingHours,omitempty"`
	Address      string     `json:"address,omitempty"`
	ZipCode      string     `json:"zipCode,omitempty"`
	City         string     `json:"city,omitempty"`
}

// IsNew reports whether the POI carries the creation sentinel.
func (p Poi) IsNew() bool {
	return p.ID == ""
}

// NeedsDescription reports whether the description is the empty sentinel.
func (p Poi) NeedsDescription() bool {
	return p.Description == ""
}

// Validate checks the fields every stored POI must have.
func (p Poi) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: poi name is required", ErrValidation)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown poi type %q", ErrValidation, p.Type)
	}
	if !p.Position.Valid() {
		return fmt.Errorf("%w: poi position is out of range", ErrValidation)
	}
	return nil
}

// NewDraft returns an empty POI form positioned at DefaultFormPosition.
func NewDraft() Poi {
	return Poi{Type: PoiTypeVillage, Position: DefaultFormPosition}
}

// AddressQuery is the free-text address a POI form submits for geocoding.
type AddressQuery struct {
	Address string `json:"address"`
	ZipCode string `json:"zipCode"`
	City    string `json:"city,omitempty"`
}

// QueryFromPoi builds the address query from a POI's address fields.
func QueryFromPoi(p Poi) AddressQuery {
	return AddressQuery{Address: p.Address, ZipCode: p.ZipCode, City: p.City}
}

// Validate fails when both the street address and the postal code are blank.
func (q AddressQuery) Validate() error {
	if strings.TrimSpace(q.Address) == "" && strings.TrimSpace(q.ZipCode) == "" {
		return fmt.Errorf("%w: address and postal code required", ErrValidation)
	}
	return nil
}

// String concatenates the non-blank fields into a single free-text query.
func (q AddressQuery) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{q.Address, q.ZipCode, q.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
