package models

// GeocodeResult is a single match returned by a geocoding provider.
type GeocodeResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`    // Label is the provider's description of the matched place.
	Provider  string  `json:"provider"` // Provider is the name of the geocoder that produced the match.
}

// Coordinates returns the result's point.
func (r GeocodeResult) Coordinates() Coordinates {
	return Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}
