package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/UnknownOlympus/pinpoint/internal/resolution"
	"github.com/UnknownOlympus/pinpoint/test/mocks"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service  *StoreService
	repo     *mocks.Interface
	geocoder *mocks.Geocoder
	postal   *mocks.PostalLookup
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())
	repo := mocks.NewInterface(t)
	geocoder := mocks.NewGeocoder(t)
	postal := mocks.NewPostalLookup(t)
	pipeline := resolution.NewPipeline(geocoder, m, logger)

	return fixture{
		service:  NewStoreService(logger, repo, pipeline, postal, m, 2),
		repo:     repo,
		geocoder: geocoder,
		postal:   postal,
	}
}

var (
	address = models.AddressInput{
		PostalCode: "101-0021",
		Prefecture: "東京都",
		CityTown:   "千代田区外神田",
		Street:     "1-6-3",
	}
	hit = &models.GeocodeResult{Latitude: 35.6994, Longitude: 139.7710, Label: "外神田一丁目", Provider: "gsi"}

	readAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
)

func pendingStore(state models.CoordinateState) *models.Store {
	store := &models.Store{
		ID:        uuid.New(),
		Name:      "カードショップ秋葉原",
		Address:   address,
		Status:    models.StatusPending,
		UpdatedAt: readAt,
	}
	store.ApplyLocation(resolution.Unresolved(address))
	if state == models.StateAutoResolved {
		store.ApplyLocation(models.Location{
			Address:     address,
			Coordinates: models.Coordinates{Latitude: 35.70, Longitude: 139.77},
			State:       models.StateAutoResolved,
			Provider:    "nominatim",
		})
	}

	return store
}

func TestSubmit(t *testing.T) {
	t.Run("resolved submission is stored as pending", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()

		f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Once()
		f.repo.On("CreateStore", ctx, mock.MatchedBy(func(s *models.Store) bool {
			return s.Status == models.StatusPending &&
				s.CoordState == models.StateAutoResolved &&
				s.GeocodeProvider == "gsi" &&
				s.Name == "カードショップ秋葉原"
		})).Return(nil).Once()

		store, err := f.service.Submit(ctx, Submission{
			Name:         " カードショップ秋葉原 ",
			Address:      address,
			FabAvailable: true,
			Author:       "alice",
		})

		require.NoError(t, err)
		assert.Equal(t, hit.Coordinates(), store.Coordinates)
		assert.True(t, store.FabAvailable)
	})

	t.Run("missing name", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Submit(t.Context(), Submission{Address: address})

		require.ErrorIs(t, err, ErrInvalidStore)
	})

	t.Run("invalid prefecture", func(t *testing.T) {
		f := newFixture(t)
		bad := address
		bad.Prefecture = "東京"

		_, err := f.service.Submit(t.Context(), Submission{Name: "x", Address: bad})

		require.ErrorIs(t, err, models.ErrInvalidPrefecture)
	})

	t.Run("unresolved with block fallback is not stored", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()

		f.geocoder.On("Resolve", ctx, mock.Anything).Return(nil, nil).Once()

		_, err := f.service.Submit(ctx, Submission{Name: "x", Address: address, Fallback: resolution.FallbackBlock})

		require.ErrorIs(t, err, resolution.ErrUnresolved)
		f.repo.AssertNotCalled(t, "CreateStore", mock.Anything, mock.Anything)
	})

	t.Run("unresolved with confirm fallback is stored flagged", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()

		f.geocoder.On("Resolve", ctx, mock.Anything).Return(nil, nil).Once()
		f.repo.On("CreateStore", ctx, mock.MatchedBy(func(s *models.Store) bool {
			return s.CoordState == models.StateUnresolved && s.Coordinates.IsUnresolved()
		})).Return(nil).Once()

		store, err := f.service.Submit(ctx, Submission{Name: "x", Address: address, Fallback: resolution.FallbackConfirm})

		require.NoError(t, err)
		assert.Equal(t, models.StateUnresolved, store.CoordState)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		pin := models.Coordinates{Latitude: 35.70, Longitude: 139.77}

		f.repo.On("CreateStore", ctx, mock.Anything).Return(assert.AnError).Once()

		_, err := f.service.Submit(ctx, Submission{Name: "x", Address: address, Pin: &pin})

		require.ErrorIs(t, err, assert.AnError)
		f.geocoder.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})
}

func TestApprove(t *testing.T) {
	t.Run("approves with fresh coordinates", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateUnresolved)

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Once()
		f.repo.On("ApproveStore", ctx, store.ID, mock.MatchedBy(func(loc models.Location) bool {
			return loc.State == models.StateAutoResolved && loc.Coordinates == hit.Coordinates()
		}), readAt).Return(nil).Once()

		got, err := f.service.Approve(ctx, store.ID, false)

		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
	})

	t.Run("pin placed during resolution is kept", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		stale := pendingStore(models.StateUnresolved)
		pinned := pendingStore(models.StateUnresolved)
		pinned.ID = stale.ID
		pinned.UpdatedAt = readAt.Add(time.Second)
		pin := models.Coordinates{Latitude: 35.0, Longitude: 135.0}
		pinned.ApplyLocation(models.Location{
			Address:     address,
			Coordinates: pin,
			State:       models.StateManualOverride,
			Provider:    resolution.ManualProvider,
		})

		f.repo.On("GetStore", ctx, stale.ID).Return(stale, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Once()
		f.repo.On("ApproveStore", ctx, stale.ID, mock.Anything, readAt).Return(repository.ErrStoreChanged).Once()
		f.repo.On("GetStore", ctx, stale.ID).Return(pinned, nil).Once()
		f.repo.On("ApproveStore", ctx, stale.ID, pinned.Location(), pinned.UpdatedAt).Return(nil).Once()

		got, err := f.service.Approve(ctx, stale.ID, false)

		require.NoError(t, err)
		assert.Equal(t, models.StateManualOverride, got.CoordState)
		assert.Equal(t, pin, got.Coordinates)
	})

	t.Run("gives up on a store that keeps changing", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateAutoResolved)

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Times(3)
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Times(3)
		f.repo.On("ApproveStore", ctx, store.ID, mock.Anything, readAt).Return(repository.ErrStoreChanged).Times(3)

		_, err := f.service.Approve(ctx, store.ID, false)

		require.ErrorIs(t, err, repository.ErrStoreChanged)
	})

	t.Run("unresolved miss is refused", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateUnresolved)

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(nil, nil).Once()

		_, err := f.service.Approve(ctx, store.ID, false)

		require.ErrorIs(t, err, resolution.ErrUnresolved)
		f.repo.AssertNotCalled(t, "ApproveStore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		id := uuid.New()

		f.repo.On("GetStore", ctx, id).Return(nil, repository.ErrStoreNotFound).Once()

		_, err := f.service.Approve(ctx, id, true)

		require.ErrorIs(t, err, repository.ErrStoreNotFound)
	})
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	id := uuid.New()

	f.repo.On("DeleteStore", ctx, id).Return(nil).Once()

	require.NoError(t, f.service.Reject(ctx, id))
}

func TestOverrideLocation(t *testing.T) {
	t.Run("pins the store", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateAutoResolved)
		point := models.Coordinates{Latitude: 35.6990, Longitude: 139.7705}

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Once()
		f.repo.On("SaveLocation", ctx, store.ID, mock.MatchedBy(func(loc models.Location) bool {
			return loc.State == models.StateManualOverride && loc.Coordinates == point
		})).Return(nil).Once()

		got, err := f.service.OverrideLocation(ctx, store.ID, point)

		require.NoError(t, err)
		assert.Equal(t, models.StateManualOverride, got.CoordState)
	})

	t.Run("sentinel is refused", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateAutoResolved)

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Once()

		_, err := f.service.OverrideLocation(ctx, store.ID, models.Sentinel)

		require.ErrorIs(t, err, resolution.ErrSentinelPoint)
	})
}

func TestEditAddress(t *testing.T) {
	t.Run("unchanged address is a no-op", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateAutoResolved)

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Once()

		got, err := f.service.EditAddress(ctx, store.ID, address)

		require.NoError(t, err)
		assert.Equal(t, store, got)
	})

	t.Run("changed address is re-resolved", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateAutoResolved)
		moved := address
		moved.Street = "3-1-1"

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(nil, nil).Once()
		f.repo.On("UpdateLocation", ctx, store.ID, mock.MatchedBy(func(loc models.Location) bool {
			return loc.State == models.StateUnresolved && loc.Address == moved
		}), readAt).Return(nil).Once()

		got, err := f.service.EditAddress(ctx, store.ID, moved)

		require.NoError(t, err)
		assert.Equal(t, models.StateUnresolved, got.CoordState)
		assert.True(t, got.Coordinates.IsUnresolved())
	})

	t.Run("building line edit keeps the pin", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateAutoResolved)
		pin := models.Coordinates{Latitude: 35.6990, Longitude: 139.7705}
		store.ApplyLocation(models.Location{
			Address:     address,
			Coordinates: pin,
			State:       models.StateManualOverride,
			Provider:    resolution.ManualProvider,
		})
		relabelled := address
		relabelled.BuildingLine = "丸和ビル 5F"

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Once()
		f.repo.On("UpdateLocation", ctx, store.ID, mock.MatchedBy(func(loc models.Location) bool {
			return loc.State == models.StateManualOverride && loc.Coordinates == pin && loc.Address == relabelled
		}), readAt).Return(nil).Once()

		got, err := f.service.EditAddress(ctx, store.ID, relabelled)

		require.NoError(t, err)
		assert.Equal(t, models.StateManualOverride, got.CoordState)
		assert.Equal(t, "丸和ビル 5F", got.Address.BuildingLine)
		f.geocoder.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("concurrent change is reported", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateAutoResolved)
		moved := address
		moved.Street = "3-1-1"

		f.repo.On("GetStore", ctx, store.ID).Return(store, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Once()
		f.repo.On("UpdateLocation", ctx, store.ID, mock.Anything, readAt).Return(repository.ErrStoreChanged).Once()

		_, err := f.service.EditAddress(ctx, store.ID, moved)

		require.ErrorIs(t, err, repository.ErrStoreChanged)
	})
}

func TestLookupPostalAndPreview(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	area := &models.PostalAddress{PostalCode: "101-0021", Prefecture: "東京都", City: "千代田区", Town: "外神田"}

	f.postal.On("Lookup", ctx, "1010021").Return(area, nil).Once()
	f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Once()

	got, err := f.service.LookupPostal(ctx, "1010021")
	require.NoError(t, err)
	assert.Equal(t, area, got)

	result, err := f.service.PreviewGeocode(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, hit, result)

	_, err = f.service.PreviewGeocode(ctx, models.AddressInput{Prefecture: "Tokyo"})
	require.ErrorIs(t, err, models.ErrInvalidPrefecture)
}

func TestRevalidate(t *testing.T) {
	t.Run("successfull processing", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		first, second := pendingStore(models.StateUnresolved), pendingStore(models.StateUnresolved)
		second.Address.CityTown = "千代田区神田"

		f.repo.On("FetchStoresForResolution", ctx, 100).Return([]models.Store{*first, *second}, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Twice()
		f.repo.On("UpdateLocation", ctx, mock.Anything, mock.Anything, readAt).Return(nil).Twice()

		report, err := f.service.Revalidate(ctx)

		require.NoError(t, err)
		assert.Equal(t, RevalidateReport{Processed: 2, Resolved: 2}, report)
	})

	t.Run("fetch stores return error", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()

		f.repo.On("FetchStoresForResolution", ctx, 100).Return(nil, assert.AnError).Once()

		_, err := f.service.Revalidate(ctx)

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("fetch stores return empty list", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()

		f.repo.On("FetchStoresForResolution", ctx, 100).Return([]models.Store{}, nil).Once()

		report, err := f.service.Revalidate(ctx)

		require.NoError(t, err)
		assert.Zero(t, report)
	})

	t.Run("miss increments failure count", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateUnresolved)

		f.repo.On("FetchStoresForResolution", ctx, 100).Return([]models.Store{*store}, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(nil, nil).Once()
		f.repo.On("IncrementFailureCount", ctx, store.ID, resolution.ErrUnresolved.Error()).Return(nil).Once()

		report, err := f.service.Revalidate(ctx)

		require.NoError(t, err)
		assert.Equal(t, RevalidateReport{Processed: 1, Failed: 1}, report)
	})

	t.Run("error to increment failure count", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateUnresolved)

		f.repo.On("FetchStoresForResolution", ctx, 100).Return([]models.Store{*store}, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(nil, nil).Once()
		f.repo.On("IncrementFailureCount", ctx, store.ID, mock.Anything).Return(assert.AnError).Once()

		report, err := f.service.Revalidate(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
	})

	t.Run("error to save location", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateUnresolved)

		f.repo.On("FetchStoresForResolution", ctx, 100).Return([]models.Store{*store}, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Once()
		f.repo.On("UpdateLocation", ctx, store.ID, mock.Anything, readAt).Return(assert.AnError).Once()

		report, err := f.service.Revalidate(ctx)

		require.NoError(t, err)
		assert.Equal(t, RevalidateReport{Processed: 1, Failed: 1}, report)
	})

	t.Run("store changed while resolving is skipped", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		store := pendingStore(models.StateUnresolved)

		f.repo.On("FetchStoresForResolution", ctx, 100).Return([]models.Store{*store}, nil).Once()
		f.geocoder.On("Resolve", ctx, mock.Anything).Return(hit, nil).Once()
		f.repo.On("UpdateLocation", ctx, store.ID, mock.Anything, readAt).Return(repository.ErrStoreChanged).Once()

		report, err := f.service.Revalidate(ctx)

		require.NoError(t, err)
		assert.Equal(t, RevalidateReport{Processed: 1, Skipped: 1}, report)
	})

	t.Run("cancelled context skips remaining stores", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(t.Context())
		store := pendingStore(models.StateUnresolved)

		f.repo.On("FetchStoresForResolution", ctx, 100).
			Return(func(context.Context, int) ([]models.Store, error) {
				cancel()
				return []models.Store{*store}, nil
			}).Once()

		report, err := f.service.Revalidate(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, report.Failed)
	})
}

func TestListStores(t *testing.T) {
	t.Run("approved with filters", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()
		want := []models.Store{*pendingStore(models.StateAutoResolved)}

		f.repo.On("ListStores", ctx, repository.StoreFilter{
			Status:     models.StatusApproved,
			Prefecture: "東京都",
			Query:      "秋葉原",
			Limit:      listLimit,
		}).Return(want, nil).Once()

		got, err := f.service.ListApproved(ctx, StoreQuery{Prefecture: "東京都", Name: "秋葉原"})

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("unknown prefecture", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.ListApproved(t.Context(), StoreQuery{Prefecture: "東京"})

		require.ErrorIs(t, err, models.ErrInvalidPrefecture)
	})

	t.Run("pending", func(t *testing.T) {
		f := newFixture(t)
		ctx := t.Context()

		f.repo.On("ListStores", ctx, repository.StoreFilter{Status: models.StatusPending, Limit: listLimit}).
			Return(nil, assert.AnError).Once()

		_, err := f.service.ListPending(ctx)

		require.ErrorIs(t, err, assert.AnError)
	})
}
