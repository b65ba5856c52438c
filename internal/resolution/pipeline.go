// Package resolution turns store addresses into map coordinates and decides what happens to a
// store's location when automatic resolution fails.
package resolution

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/query"
)

// Trigger labels the operation that asked for a resolution.
type Trigger string

const (
	TriggerLookup     Trigger = "lookup"
	TriggerSubmit     Trigger = "submit"
	TriggerApprove    Trigger = "approve"
	TriggerEdit       Trigger = "edit"
	TriggerRevalidate Trigger = "revalidate"
)

const (
	outcomeResolved   = "resolved"
	outcomeUnresolved = "unresolved"
	outcomeCancelled  = "cancelled"
)

// Geocoder walks a query plan and returns the first match, or (nil, nil) when nothing matched.
type Geocoder interface {
	Resolve(ctx context.Context, plan query.Plan) (*models.GeocodeResult, error)
}

// Pipeline resolves structured addresses: normalization, candidate synthesis and the provider chain.
type Pipeline struct {
	geocoder Geocoder
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewPipeline creates a pipeline over geocoder.
func NewPipeline(geocoder Geocoder, m *metrics.Metrics, log *slog.Logger) *Pipeline {
	return &Pipeline{geocoder: geocoder, metrics: m, log: log}
}

// ResolveAddress returns the coordinates for in, or (nil, nil) when no provider matched any
// candidate. An address without a prefecture is not sent anywhere. The only error is ctx's.
func (p *Pipeline) ResolveAddress(ctx context.Context, in models.AddressInput) (*models.GeocodeResult, error) {
	return p.resolve(ctx, in, TriggerLookup)
}

func (p *Pipeline) resolve(ctx context.Context, in models.AddressInput, trigger Trigger) (*models.GeocodeResult, error) {
	if strings.TrimSpace(in.Prefecture) == "" {
		p.metrics.Resolutions.WithLabelValues(string(trigger), outcomeUnresolved).Inc()
		return nil, nil
	}

	plan := query.NewPlan(in)
	p.log.DebugContext(ctx, "Resolving address",
		"trigger", trigger,
		"primary_candidates", len(plan.Primary),
		"secondary_candidates", len(plan.Secondary))

	result, err := p.geocoder.Resolve(ctx, plan)
	switch {
	case err != nil:
		p.metrics.Resolutions.WithLabelValues(string(trigger), outcomeCancelled).Inc()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			p.log.InfoContext(ctx, "Resolution abandoned", "trigger", trigger, "error", err)
		} else {
			p.log.ErrorContext(ctx, "Resolution failed", "trigger", trigger, "error", err)
		}
		return nil, err
	case result == nil:
		p.metrics.Resolutions.WithLabelValues(string(trigger), outcomeUnresolved).Inc()
		p.log.InfoContext(ctx, "Address could not be resolved",
			"trigger", trigger, "prefecture", in.Prefecture, "city_town", in.CityTown)
		return nil, nil
	default:
		p.metrics.Resolutions.WithLabelValues(string(trigger), outcomeResolved).Inc()
		return result, nil
	}
}
