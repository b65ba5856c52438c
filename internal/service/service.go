package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/UnknownOlympus/pinpoint/internal/resolution"
	"github.com/google/uuid"
)

// ErrInvalidStore is returned when a submission misses a required field.
var ErrInvalidStore = errors.New("invalid store")

const (
	// listLimit caps the admin and public store lists.
	listLimit = 500
	// conflictRetries bounds how often an approval restarts after a concurrent change.
	conflictRetries = 3
)

// PostalLookup resolves a postal code to the area it covers, or (nil, nil) when it is unknown.
type PostalLookup interface {
	Lookup(ctx context.Context, code string) (*models.PostalAddress, error)
}

// StoreService implements store submission, admin review and the address helpers of the store
// locator on top of the repository and the resolution policy.
type StoreService struct {
	log        *slog.Logger         // Logger for logging service activities
	repo       repository.Interface // Interface for data repository access
	pipeline   *resolution.Pipeline // Address resolution for previews
	policy     *resolution.Policy   // State transitions of store locations
	postal     PostalLookup         // Postal code autofill
	metrics    *metrics.Metrics     // Metrics for tracking service performance
	numWorkers int                  // Number of concurrent workers for revalidation
}

// NewStoreService creates a new instance of StoreService.
func NewStoreService(
	log *slog.Logger,
	repo repository.Interface,
	pipeline *resolution.Pipeline,
	postal PostalLookup,
	metrics *metrics.Metrics,
	numWorkers int,
) *StoreService {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	return &StoreService{
		log:        log,
		repo:       repo,
		pipeline:   pipeline,
		policy:     resolution.NewPolicy(pipeline, log),
		postal:     postal,
		metrics:    metrics,
		numWorkers: numWorkers,
	}
}

// Submission is a new store proposed by a community member.
type Submission struct {
	Name            string
	Address         models.AddressInput
	Pin             *models.Coordinates // Optional hand-placed location
	Fallback        resolution.Fallback // What to do when the address cannot be resolved
	FabAvailable    bool
	ArmoryAvailable bool
	FormatText      string
	Notes           string
	Author          string
}

// Submit validates sub, computes its initial location and stores it as pending.
func (s *StoreService) Submit(ctx context.Context, sub Submission) (*models.Store, error) {
	if strings.TrimSpace(sub.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidStore)
	}
	if err := sub.Address.Validate(); err != nil {
		return nil, err
	}

	loc, err := s.policy.OnSubmit(ctx, sub.Address, sub.Pin, sub.Fallback)
	if err != nil {
		return nil, err
	}

	store := &models.Store{
		Name:            strings.TrimSpace(sub.Name),
		FabAvailable:    sub.FabAvailable,
		ArmoryAvailable: sub.ArmoryAvailable,
		FormatText:      sub.FormatText,
		Notes:           sub.Notes,
		Author:          sub.Author,
		Status:          models.StatusPending,
	}
	store.ApplyLocation(loc)

	if err = s.repo.CreateStore(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.log.InfoContext(ctx, "Store submitted", "id", store.ID, "state", store.CoordState)

	return store, nil
}

// StoreQuery narrows the public store list. Empty fields match everything.
type StoreQuery struct {
	Prefecture string // Exact prefecture name
	Name       string // Case-insensitive part of the store name
}

// ListPending returns the submissions waiting for review.
func (s *StoreService) ListPending(ctx context.Context) ([]models.Store, error) {
	return s.repo.ListStores(ctx, repository.StoreFilter{Status: models.StatusPending, Limit: listLimit})
}

// ListApproved returns the stores shown on the public map that match q.
func (s *StoreService) ListApproved(ctx context.Context, q StoreQuery) ([]models.Store, error) {
	if p := strings.TrimSpace(q.Prefecture); p != "" && !models.IsPrefecture(p) {
		return nil, models.ErrInvalidPrefecture
	}

	return s.repo.ListStores(ctx, repository.StoreFilter{
		Status:     models.StatusApproved,
		Prefecture: q.Prefecture,
		Query:      q.Name,
		Limit:      listLimit,
	})
}

// Get returns a single store.
func (s *StoreService) Get(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	return s.repo.GetStore(ctx, id)
}

// Approve re-resolves a store with its current address and publishes it. An unresolved store is
// only published when allowUnresolved is set. When the store changes while it is being resolved,
// a manual pin for instance, the approval starts over from the fresh record.
func (s *StoreService) Approve(ctx context.Context, id uuid.UUID, allowUnresolved bool) (*models.Store, error) {
	for attempt := 1; ; attempt++ {
		store, err := s.approve(ctx, id, allowUnresolved)
		if !errors.Is(err, repository.ErrStoreChanged) || attempt == conflictRetries {
			return store, err
		}

		s.log.InfoContext(ctx, "Store changed during approval, retrying", "id", id, "attempt", attempt)
	}
}

func (s *StoreService) approve(ctx context.Context, id uuid.UUID, allowUnresolved bool) (*models.Store, error) {
	store, err := s.repo.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	loc, err := s.policy.OnApprove(ctx, store.Location(), allowUnresolved)
	if err != nil {
		return nil, err
	}

	if err = s.repo.ApproveStore(ctx, id, loc, store.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to approve store: %w", err)
	}

	store.ApplyLocation(loc)
	store.Status = models.StatusApproved
	store.ResolutionError = ""

	s.log.InfoContext(ctx, "Store approved", "id", id, "state", loc.State, "provider", loc.Provider)

	return store, nil
}

// Reject deletes a submission.
func (s *StoreService) Reject(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteStore(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Store rejected", "id", id)

	return nil
}

// OverrideLocation pins a store to a hand-placed point.
func (s *StoreService) OverrideLocation(ctx context.Context, id uuid.UUID, point models.Coordinates) (*models.Store, error) {
	store, err := s.repo.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	loc, err := s.policy.Override(store.Location(), point)
	if err != nil {
		return nil, err
	}

	if err = s.repo.SaveLocation(ctx, id, loc); err != nil {
		return nil, fmt.Errorf("failed to save location: %w", err)
	}

	store.ApplyLocation(loc)
	s.log.InfoContext(ctx, "Store location overridden", "id", id,
		"lat", point.Latitude, "lon", point.Longitude)

	return store, nil
}

// EditAddress replaces a store's address. A changed address discards the old coordinates,
// a manual pin included, and resolves the new one. A change of the building line alone keeps the
// location. ErrStoreChanged is returned when the store was modified during the edit.
func (s *StoreService) EditAddress(ctx context.Context, id uuid.UUID, address models.AddressInput) (*models.Store, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}

	store, err := s.repo.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if store.Address.Equal(address) {
		return store, nil
	}

	loc, err := s.policy.OnAddressEdit(ctx, store.Location(), address)
	if err != nil {
		return nil, err
	}

	if err = s.repo.UpdateLocation(ctx, id, loc, store.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to save location: %w", err)
	}

	store.ApplyLocation(loc)
	s.log.InfoContext(ctx, "Store address edited", "id", id, "state", loc.State)

	return store, nil
}

// LookupPostal returns the area of a postal code for form autofill, or nil when it is unknown.
func (s *StoreService) LookupPostal(ctx context.Context, code string) (*models.PostalAddress, error) {
	return s.postal.Lookup(ctx, code)
}

// PreviewGeocode resolves an address without storing anything. A nil result means no match.
func (s *StoreService) PreviewGeocode(ctx context.Context, address models.AddressInput) (*models.GeocodeResult, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}

	return s.pipeline.ResolveAddress(ctx, address)
}
