package geocoding

import (
	"context"
	"net/http"

	"github.com/UnknownOlympus/pinpoint/internal/models"
)

// Provider is an interface that defines a method for geocoding a single candidate query.
// Geocode returns a result only when the provider matched something; every failure is an error
// wrapping one of ErrNetworkFailure, ErrEmptyResult or ErrMalformedResponse.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) (*models.GeocodeResult, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
