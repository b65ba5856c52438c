package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider wraps an initialised Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Name returns the provider name used in results and metrics.
func (gp *GoogleProvider) Name() string {
	return string(ProviderTypeGoogle)
}

// Geocode resolves query with the Google Maps Geocoding API, biased to Japan.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query, Region: "jp", Language: "ja"}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to geocode address: %w", ErrNetworkFailure, err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrEmptyResult
	}
	match := geocodeResponse[0]

	return newResult(gp.Name(), match.Geometry.Location.Lat, match.Geometry.Location.Lng, match.FormattedAddress)
}
