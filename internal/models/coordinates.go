package models

import (
	"errors"
	"math"
)

// Sentinel is the default coordinate a store carries until its address is resolved (Tokyo Station).
var Sentinel = Coordinates{Latitude: 35.681, Longitude: 139.767}

// SentinelEpsilon is the tolerance, in degrees, used when comparing against Sentinel.
const SentinelEpsilon = 1e-4

// ErrOutOfRange is returned when a latitude or longitude falls outside the valid WGS84 range.
var ErrOutOfRange = errors.New("coordinates out of range")

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
}

// IsUnresolved reports whether the point still sits on the sentinel.
func (c Coordinates) IsUnresolved() bool {
	return math.Abs(c.Latitude-Sentinel.Latitude) <= SentinelEpsilon &&
		math.Abs(c.Longitude-Sentinel.Longitude) <= SentinelEpsilon
}

// Validate checks that latitude is within [-90, 90] and longitude within [-180, 180].
func (c Coordinates) Validate() error {
	const (
		maxLat = 90
		maxLon = 180
	)

	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		c.Latitude < -maxLat || c.Latitude > maxLat ||
		c.Longitude < -maxLon || c.Longitude > maxLon {
		return ErrOutOfRange
	}

	return nil
}

// CoordinateState records where a store's coordinates came from.
type CoordinateState string

const (
	// StateUnresolved means the coordinates are still the sentinel.
	StateUnresolved CoordinateState = "unresolved"
	// StateAutoResolved means the coordinates came from the geocoding chain.
	StateAutoResolved CoordinateState = "auto_resolved"
	// StateManualOverride means a human placed the pin; automatic resolution must not touch it.
	StateManualOverride CoordinateState = "manual_override"
)

// Valid reports whether s is one of the known states.
func (s CoordinateState) Valid() bool {
	switch s {
	case StateUnresolved, StateAutoResolved, StateManualOverride:
		return true
	default:
		return false
	}
}
