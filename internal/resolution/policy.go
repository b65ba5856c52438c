package resolution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/pinpoint/internal/models"
)

var (
	// ErrUnresolved means automatic resolution found nothing and the caller has not agreed to keep
	// the store unresolved.
	ErrUnresolved = errors.New("address could not be resolved to coordinates")
	// ErrManualOverrideRequired asks the caller to place the pin by hand.
	ErrManualOverrideRequired = errors.New("address could not be resolved, place the pin manually")
	// ErrSentinelPoint rejects a manual pin on the default coordinate.
	ErrSentinelPoint = errors.New("manual location equals the unresolved default location")
	// ErrUnknownFallback is returned by ParseFallback.
	ErrUnknownFallback = errors.New("unknown fallback")
)

// Fallback selects what a submission does when its address cannot be resolved.
type Fallback string

const (
	// FallbackBlock rejects the submission with ErrUnresolved.
	FallbackBlock Fallback = "block"
	// FallbackConfirm keeps the submission, explicitly flagged as unresolved.
	FallbackConfirm Fallback = "confirm"
	// FallbackManual rejects the submission with ErrManualOverrideRequired.
	FallbackManual Fallback = "manual"
)

// ParseFallback parses s. An empty string selects FallbackBlock.
func ParseFallback(s string) (Fallback, error) {
	switch Fallback(s) {
	case "":
		return FallbackBlock, nil
	case FallbackBlock, FallbackConfirm, FallbackManual:
		return Fallback(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFallback, s)
	}
}

// ManualProvider is recorded as the provider of hand-placed locations.
const ManualProvider = "manual"

// ApplyManualOverride validates a hand-placed point. The sentinel is refused so an override can
// never be mistaken for an unresolved record.
func ApplyManualOverride(point models.Coordinates) (models.Coordinates, error) {
	if err := point.Validate(); err != nil {
		return models.Coordinates{}, err
	}
	if point.IsUnresolved() {
		return models.Coordinates{}, ErrSentinelPoint
	}

	return point, nil
}

// Policy moves a store location between the unresolved, auto-resolved and manual-override states.
type Policy struct {
	pipeline *Pipeline
	log      *slog.Logger
}

// NewPolicy creates a policy that resolves through pipeline.
func NewPolicy(pipeline *Pipeline, log *slog.Logger) *Policy {
	return &Policy{pipeline: pipeline, log: log}
}

// Unresolved returns an unresolved location for address.
func Unresolved(address models.AddressInput) models.Location {
	return models.Location{
		Address:     address,
		Coordinates: models.Sentinel,
		State:       models.StateUnresolved,
	}
}

func resolved(address models.AddressInput, result *models.GeocodeResult) models.Location {
	return models.Location{
		Address:     address,
		Coordinates: result.Coordinates(),
		State:       models.StateAutoResolved,
		Label:       result.Label,
		Provider:    result.Provider,
	}
}

// Override pins loc to point. Applying the same point twice yields the same location.
func (p *Policy) Override(loc models.Location, point models.Coordinates) (models.Location, error) {
	coords, err := ApplyManualOverride(point)
	if err != nil {
		return loc, err
	}

	return models.Location{
		Address:     loc.Address,
		Coordinates: coords,
		State:       models.StateManualOverride,
		Provider:    ManualProvider,
	}, nil
}

// OnSubmit computes the initial location of a new store. A pin other than the sentinel wins
// outright. Otherwise the address is resolved and a miss is handled according to fallback.
func (p *Policy) OnSubmit(
	ctx context.Context,
	address models.AddressInput,
	pinned *models.Coordinates,
	fallback Fallback,
) (models.Location, error) {
	if pinned != nil && !pinned.IsUnresolved() {
		return p.Override(Unresolved(address), *pinned)
	}

	result, err := p.pipeline.resolve(ctx, address, TriggerSubmit)
	if err != nil {
		return models.Location{}, err
	}
	if result != nil {
		return resolved(address, result), nil
	}

	switch fallback {
	case FallbackConfirm:
		p.log.InfoContext(ctx, "Submission kept as unresolved", "prefecture", address.Prefecture)
		return Unresolved(address), nil
	case FallbackManual:
		return models.Location{}, ErrManualOverrideRequired
	default:
		return models.Location{}, ErrUnresolved
	}
}

// OnApprove re-resolves loc with its current address before a store goes live. Manual overrides
// are returned unchanged. A miss keeps previously auto-resolved coordinates; an unresolved location
// fails with ErrUnresolved unless allowUnresolved is set.
func (p *Policy) OnApprove(ctx context.Context, loc models.Location, allowUnresolved bool) (models.Location, error) {
	if loc.State == models.StateManualOverride {
		return loc, nil
	}

	result, err := p.pipeline.resolve(ctx, loc.Address, TriggerApprove)
	if err != nil {
		return loc, err
	}
	if result != nil {
		return resolved(loc.Address, result), nil
	}

	if loc.State == models.StateAutoResolved && !loc.Coordinates.IsUnresolved() {
		p.log.InfoContext(ctx, "Re-resolution missed, keeping previous coordinates",
			"lat", loc.Coordinates.Latitude, "lon", loc.Coordinates.Longitude)
		return loc, nil
	}

	if allowUnresolved {
		return Unresolved(loc.Address), nil
	}

	return loc, ErrUnresolved
}

// OnAddressEdit applies an edited address. When the geocoded fields are unchanged only the
// building line is taken over and the location keeps its state, manual override included.
// A changed address discards the old coordinates and resolves the new one; a miss leaves the
// location unresolved.
func (p *Policy) OnAddressEdit(ctx context.Context, loc models.Location, address models.AddressInput) (models.Location, error) {
	if loc.Address.SameLocation(address) {
		loc.Address.BuildingLine = address.BuildingLine
		return loc, nil
	}

	demoted := Unresolved(address)

	result, err := p.pipeline.resolve(ctx, address, TriggerEdit)
	if err != nil {
		return demoted, err
	}
	if result == nil {
		return demoted, nil
	}

	return resolved(address, result), nil
}

// Retry resolves an unresolved location again. Locations in any other state are returned as is.
// A miss returns ErrUnresolved.
func (p *Policy) Retry(ctx context.Context, loc models.Location) (models.Location, error) {
	if loc.State != models.StateUnresolved {
		return loc, nil
	}

	result, err := p.pipeline.resolve(ctx, loc.Address, TriggerRevalidate)
	if err != nil {
		return loc, err
	}
	if result == nil {
		return loc, ErrUnresolved
	}

	return resolved(loc.Address, result), nil
}
