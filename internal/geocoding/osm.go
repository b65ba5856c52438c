package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

// OSMProvider geocodes through geo-golang's OpenStreetMap backend.
type OSMProvider struct {
	geocoder geo.Geocoder
	log      *slog.Logger
}

// NewOSMProvider creates a provider backed by the public OpenStreetMap geocoder.
func NewOSMProvider(log *slog.Logger) *OSMProvider {
	return NewOSMProviderWithGeocoder(openstreetmap.Geocoder(), log)
}

// NewOSMProviderWithGeocoder wraps any geo-golang geocoder.
func NewOSMProviderWithGeocoder(geocoder geo.Geocoder, log *slog.Logger) *OSMProvider {
	return &OSMProvider{geocoder: geocoder, log: log}
}

// Name returns the provider name used in results and metrics.
func (op *OSMProvider) Name() string {
	return string(ProviderTypeOSM)
}

// Geocode resolves query. geo-golang calls are not context aware, so the call runs in its own
// goroutine and is abandoned when ctx ends.
func (op *OSMProvider) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	op.log.DebugContext(ctx, "Geocoding using OpenStreetMap", "query", query)

	type outcome struct {
		location *geo.Location
		err      error
	}

	done := make(chan outcome, 1)
	go func() {
		location, err := op.geocoder.Geocode(query)
		done <- outcome{location: location, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("%w: failed to geocode address: %w", ErrNetworkFailure, out.err)
		}
		if out.location == nil {
			return nil, ErrEmptyResult
		}

		return newResult(op.Name(), out.location.Lat, out.location.Lng, query)
	}
}
