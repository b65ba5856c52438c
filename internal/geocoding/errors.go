package geocoding

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/pinpoint/internal/models"
)

// Error taxonomy shared by all providers. The chain recovers from each of them by moving on to
// the next candidate.
var (
	ErrNetworkFailure    = errors.New("geocoding provider unreachable")
	ErrEmptyResult       = errors.New("geocoding provider returned no match")
	ErrMalformedResponse = errors.New("geocoding provider returned a malformed response")
	ErrEmptyQuery        = errors.New("geocoding query is empty")
)

// Outcome labels used for metrics and logs.
const (
	OutcomeHit       = "hit"
	OutcomeEmpty     = "empty"
	OutcomeMalformed = "malformed"
	OutcomeTimeout   = "timeout"
	OutcomeNetwork   = "network"
)

// Classify maps a provider error to an outcome label.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeHit
	case errors.Is(err, ErrEmptyResult), errors.Is(err, ErrEmptyQuery):
		return OutcomeEmpty
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformed
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeNetwork
	}
}

// newResult builds a GeocodeResult, rejecting out-of-range points and the unresolved sentinel.
func newResult(provider string, lat, lon float64, label string) (*models.GeocodeResult, error) {
	coords := models.Coordinates{Latitude: lat, Longitude: lon}
	if err := coords.Validate(); err != nil {
		return nil, fmt.Errorf("%w: lat=%f lon=%f", ErrMalformedResponse, lat, lon)
	}
	if coords.IsUnresolved() {
		return nil, fmt.Errorf("%w: match sits on the unresolved sentinel", ErrMalformedResponse)
	}

	return &models.GeocodeResult{
		Latitude:  lat,
		Longitude: lon,
		Label:     label,
		Provider:  provider,
	}, nil
}
