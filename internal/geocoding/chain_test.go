package geocoding_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/geocoding"
	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/query"
	"github.com/UnknownOlympus/pinpoint/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func namedProvider(t *testing.T, name string) *mocks.Provider {
	p := mocks.NewProvider(t)
	p.On("Name").Return(name).Maybe()
	return p
}

func hit(provider string, lat, lon float64) *models.GeocodeResult {
	return &models.GeocodeResult{Latitude: lat, Longitude: lon, Label: "match", Provider: provider}
}

func TestChain_Resolve(t *testing.T) {
	logger := slog.Default()

	plan := query.Plan{
		Primary:   query.Candidates{"p1", "p2", "p3"},
		Secondary: query.Candidates{"s1", "s2"},
	}

	t.Run("primary hit short-circuits", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		primary := namedProvider(t, "gsi")
		secondary := namedProvider(t, "nominatim")

		primary.On("Geocode", mock.Anything, "p1").Return(nil, geocoding.ErrEmptyResult).Once()
		primary.On("Geocode", mock.Anything, "p2").Return(hit("gsi", 35.69, 139.77), nil).Once()

		chain := geocoding.NewChain(primary, secondary, time.Second, m, logger)
		result, err := chain.Resolve(t.Context(), plan)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "gsi", result.Provider)
		primary.AssertNotCalled(t, "Geocode", mock.Anything, "p3")
		secondary.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)

		assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("gsi", geocoding.OutcomeHit)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("gsi", geocoding.OutcomeEmpty)), 0)
	})

	t.Run("falls through to secondary", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		primary := namedProvider(t, "gsi")
		secondary := namedProvider(t, "nominatim")

		primary.On("Geocode", mock.Anything, "p1").Return(nil, geocoding.ErrNetworkFailure).Once()
		primary.On("Geocode", mock.Anything, "p2").Return(nil, geocoding.ErrMalformedResponse).Once()
		primary.On("Geocode", mock.Anything, "p3").Return(nil, geocoding.ErrEmptyResult).Once()
		secondary.On("Geocode", mock.Anything, "s1").Return(hit("nominatim", 34.70, 135.50), nil).Once()

		chain := geocoding.NewChain(primary, secondary, time.Second, m, logger)
		result, err := chain.Resolve(t.Context(), plan)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "nominatim", result.Provider)
		assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("gsi", geocoding.OutcomeNetwork)), 0)
		assert.InDelta(t, 1,
			testutil.ToFloat64(m.ProviderRequests.WithLabelValues("gsi", geocoding.OutcomeMalformed)), 0)
	})

	t.Run("everything exhausted returns nothing", func(t *testing.T) {
		primary := namedProvider(t, "gsi")
		secondary := namedProvider(t, "nominatim")

		primary.On("Geocode", mock.Anything, mock.Anything).Return(nil, geocoding.ErrEmptyResult).Times(3)
		secondary.On("Geocode", mock.Anything, mock.Anything).Return(nil, geocoding.ErrEmptyResult).Times(2)

		chain := geocoding.NewChain(primary, secondary, time.Second, metrics.NewMetrics(prometheus.NewRegistry()), logger)
		result, err := chain.Resolve(t.Context(), plan)

		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("nil result without error counts as empty", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		primary := namedProvider(t, "gsi")

		primary.On("Geocode", mock.Anything, "only").Return(nil, nil).Once()

		chain := geocoding.NewChain(primary, nil, time.Second, m, logger)
		result, err := chain.Resolve(t.Context(), query.Plan{Primary: query.Candidates{"only"}})

		require.NoError(t, err)
		assert.Nil(t, result)
		assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("gsi", geocoding.OutcomeEmpty)), 0)
		assert.InDelta(t, 0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("gsi", geocoding.OutcomeHit)), 0)
	})

	t.Run("nil secondary is skipped", func(t *testing.T) {
		primary := namedProvider(t, "gsi")
		primary.On("Geocode", mock.Anything, mock.Anything).Return(nil, geocoding.ErrEmptyResult).Times(3)

		chain := geocoding.NewChain(primary, nil, time.Second, metrics.NewMetrics(prometheus.NewRegistry()), logger)
		result, err := chain.Resolve(t.Context(), plan)

		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty plan makes no calls", func(t *testing.T) {
		primary := namedProvider(t, "gsi")
		secondary := namedProvider(t, "nominatim")

		chain := geocoding.NewChain(primary, secondary, time.Second, metrics.NewMetrics(prometheus.NewRegistry()), logger)
		result, err := chain.Resolve(t.Context(), query.Plan{})

		require.NoError(t, err)
		assert.Nil(t, result)
		primary.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("slow provider is bounded by the per-call timeout", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		primary := namedProvider(t, "gsi")

		primary.On("Geocode", mock.Anything, "slow").
			Return(func(ctx context.Context, _ string) (*models.GeocodeResult, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}).Once()
		primary.On("Geocode", mock.Anything, "fast").Return(hit("gsi", 33.59, 130.40), nil).Once()

		chain := geocoding.NewChain(primary, nil, 10*time.Millisecond, m, logger)
		result, err := chain.Resolve(t.Context(), query.Plan{Primary: query.Candidates{"slow", "fast"}})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("gsi", geocoding.OutcomeTimeout)), 0)
	})

	t.Run("cancelled caller context stops the walk", func(t *testing.T) {
		primary := namedProvider(t, "gsi")
		ctx, cancel := context.WithCancel(t.Context())

		primary.On("Geocode", mock.Anything, "p1").
			Return(func(_ context.Context, _ string) (*models.GeocodeResult, error) {
				cancel()
				return nil, context.Canceled
			}).Once()

		chain := geocoding.NewChain(primary, nil, time.Second, metrics.NewMetrics(prometheus.NewRegistry()), logger)
		result, err := chain.Resolve(ctx, plan)

		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
		primary.AssertNotCalled(t, "Geocode", mock.Anything, "p2")
	})
}
