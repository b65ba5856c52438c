package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreStatus is the review status of a store listing.
type StoreStatus string

const (
	StatusPending  StoreStatus = "pending"
	StatusApproved StoreStatus = "approved"
)

// Store is a retail location listed on the map.
type Store struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Address         AddressInput    `json:"address"`
	Coordinates     Coordinates     `json:"coordinates"`
	CoordState      CoordinateState `json:"coordinate_state"`
	GeocodeLabel    string          `json:"geocode_label,omitempty"`
	GeocodeProvider string          `json:"geocode_provider,omitempty"`
	FabAvailable    bool            `json:"fab_available"`
	ArmoryAvailable bool            `json:"armory_available"`
	FormatText      string          `json:"format_text"`
	Notes           string          `json:"notes"`
	Author          string          `json:"author"`
	Status          StoreStatus     `json:"status"`

	ResolutionAttempts int    `json:"resolution_attempts"`
	ResolutionError    string `json:"resolution_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location is the part of a store the resolution policy works on.
type Location struct {
	Address     AddressInput
	Coordinates Coordinates
	State       CoordinateState
	Label       string
	Provider    string
}

// Location extracts the resolution-relevant fields of the store.
func (s Store) Location() Location {
	return Location{
		Address:     s.Address,
		Coordinates: s.Coordinates,
		State:       s.CoordState,
		Label:       s.GeocodeLabel,
		Provider:    s.GeocodeProvider,
	}
}

// ApplyLocation copies a location back onto the store.
func (s *Store) ApplyLocation(loc Location) {
	s.Address = loc.Address
	s.Coordinates = loc.Coordinates
	s.CoordState = loc.State
	s.GeocodeLabel = loc.Label
	s.GeocodeProvider = loc.Provider
}

// PostalAddress is the area a Japanese postal code maps to.
type PostalAddress struct {
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Town       string `json:"town"`
}

// CityTown joins city and town the way the address form expects them.
func (p PostalAddress) CityTown() string {
	return p.City + p.Town
}
