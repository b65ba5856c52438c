package geocoding

import (
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/query"
)

// DefaultCallTimeout bounds a single provider call.
const DefaultCallTimeout = 3 * time.Second

// Chain tries the primary provider over every primary candidate, then the secondary provider over
// the secondary candidates, and stops at the first match.
type Chain struct {
	primary   Provider         // Specialised provider, tried first
	secondary Provider         // General-purpose fallback, may be nil
	timeout   time.Duration    // Per-call timeout
	metrics   *metrics.Metrics // Metrics for provider calls
	log       *slog.Logger     // Logger for the chain
}

// NewChain creates a chain. A nil secondary disables the fallback pass; a non-positive timeout
// selects DefaultCallTimeout.
func NewChain(
	primary, secondary Provider,
	timeout time.Duration,
	metrics *metrics.Metrics,
	log *slog.Logger,
) *Chain {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	return &Chain{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		metrics:   metrics,
		log:       log,
	}
}

// Resolve walks the plan and returns the first usable match.
//
// Provider failures never surface: a failed or empty call advances to the next candidate.
// When every candidate on every provider is exhausted Resolve returns (nil, nil). The only
// error returned is the caller's context error, in which case nothing was resolved.
func (c *Chain) Resolve(ctx context.Context, plan query.Plan) (*models.GeocodeResult, error) {
	passes := []struct {
		provider   Provider
		candidates query.Candidates
	}{
		{provider: c.primary, candidates: plan.Primary},
		{provider: c.secondary, candidates: plan.Secondary},
	}

	for _, pass := range passes {
		if pass.provider == nil || len(pass.candidates) == 0 {
			continue
		}

		result, err := c.walk(ctx, pass.provider, pass.candidates)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}

		c.log.InfoContext(ctx, "All candidates exhausted on provider",
			"provider", pass.provider.Name(),
			"candidates", len(pass.candidates))
	}

	return nil, nil
}

func (c *Chain) walk(ctx context.Context, provider Provider, candidates query.Candidates) (*models.GeocodeResult, error) {
	level := 0
	for candidate := range candidates.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.call(ctx, provider, candidate)
		if err == nil {
			if level == 0 {
				c.log.DebugContext(ctx, "Geocoded with first candidate",
					"provider", provider.Name(), "query", candidate)
			} else {
				c.log.InfoContext(ctx, "Geocoded using fallback candidate",
					"provider", provider.Name(), "query", candidate, "fallback_level", level)
			}
			return result, nil
		}

		// The per-call timeout is ours; a cancelled parent belongs to the caller.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		c.log.DebugContext(ctx, "Candidate produced no result, trying next",
			"provider", provider.Name(),
			"query", candidate,
			"outcome", Classify(err),
			"fallback_level", level,
			"error", err)
		level++
	}

	return nil, nil
}

func (c *Chain) call(ctx context.Context, provider Provider, candidate string) (*models.GeocodeResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	result, err := provider.Geocode(callCtx, candidate)
	duration := time.Since(startTime).Seconds()

	if err == nil && result == nil {
		err = ErrEmptyResult
	}

	c.metrics.RequestSeconds.WithLabelValues(provider.Name()).Observe(duration)
	c.metrics.ProviderRequests.WithLabelValues(provider.Name(), Classify(err)).Inc()

	if err != nil {
		return nil, err
	}

	return result, nil
}
