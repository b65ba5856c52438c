package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const storeColumns = `
	id::text, name,
	postal_code, prefecture, city_town, street, building_line,
	latitude, longitude, coord_state, geocode_label, geocode_provider,
	fab_available, armory_available, format_text, notes, author, status,
	resolution_attempts, COALESCE(resolution_error, ''), created_at, updated_at
`

// scanStore reads one row selected with storeColumns.
func scanStore(row pgx.Row) (*models.Store, error) {
	var (
		store models.Store
		id    string
	)

	err := row.Scan(
		&id, &store.Name,
		&store.Address.PostalCode, &store.Address.Prefecture, &store.Address.CityTown,
		&store.Address.Street, &store.Address.BuildingLine,
		&store.Coordinates.Latitude, &store.Coordinates.Longitude,
		&store.CoordState, &store.GeocodeLabel, &store.GeocodeProvider,
		&store.FabAvailable, &store.ArmoryAvailable, &store.FormatText, &store.Notes, &store.Author, &store.Status,
		&store.ResolutionAttempts, &store.ResolutionError, &store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if store.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid store id %q: %w", id, err)
	}

	return &store, nil
}

// CreateStore inserts a new store. A zero ID is replaced by a fresh one; CreatedAt and UpdatedAt
// are filled in from the database.
func (r *Repository) CreateStore(ctx context.Context, store *models.Store) error {
	query := `
		INSERT INTO stores (
			id, name,
			postal_code, prefecture, city_town, street, building_line,
			latitude, longitude, coord_state, geocode_label, geocode_provider,
			fab_available, armory_available, format_text, notes, author, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at;
	`

	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		store.ID, store.Name,
		store.Address.PostalCode, store.Address.Prefecture, store.Address.CityTown,
		store.Address.Street, store.Address.BuildingLine,
		store.Coordinates.Latitude, store.Coordinates.Longitude,
		store.CoordState, store.GeocodeLabel, store.GeocodeProvider,
		store.FabAvailable, store.ArmoryAvailable, store.FormatText, store.Notes, store.Author, store.Status,
	).Scan(&store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert store: %w", err)
	}

	r.log.DebugContext(ctx, "Store created", "id", store.ID, "state", store.CoordState)

	return nil
}

// GetStore returns the store with the given ID, or ErrStoreNotFound.
func (r *Repository) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1;`

	store, err := scanStore(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return store, nil
}

// StoreFilter selects stores for ListStores. Empty Prefecture and Query match everything.
type StoreFilter struct {
	Status     models.StoreStatus
	Prefecture string // Exact prefecture name
	Query      string // Case-insensitive part of the store name
	Limit      int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListStores returns up to filter.Limit stores matching filter, newest first.
func (r *Repository) ListStores(ctx context.Context, filter StoreFilter) ([]models.Store, error) {
	where := []string{"status = $1"}
	args := []any{filter.Status}

	if prefecture := strings.TrimSpace(filter.Prefecture); prefecture != "" {
		args = append(args, prefecture)
		where = append(where, fmt.Sprintf("prefecture = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	args = append(args, filter.Limit)

	query := fmt.Sprintf(`SELECT %s FROM stores WHERE %s ORDER BY created_at DESC LIMIT $%d;`,
		storeColumns, strings.Join(where, " AND "), len(args))

	return r.queryStores(ctx, query, args...)
}

// FetchStoresForResolution retrieves pending stores that are still unresolved.
// Stores that already failed 5 times are left to a human. The oldest submissions come first.
func (r *Repository) FetchStoresForResolution(ctx context.Context, limit int) ([]models.Store, error) {
	query := `SELECT ` + storeColumns + `
		FROM stores
		WHERE
			status = 'pending'
			AND coord_state = 'unresolved'
			AND resolution_attempts < 5
		ORDER BY created_at ASC
		LIMIT $1;
	`

	stores, err := r.queryStores(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	for _, store := range stores {
		r.log.DebugContext(ctx, "An unresolved pending store has been received.",
			"ID", store.ID, "attempts", store.ResolutionAttempts)
	}

	return stores, nil
}

func (r *Repository) queryStores(ctx context.Context, query string, args ...any) ([]models.Store, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		store, errScan := scanStore(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan store: %w", errScan)
		}
		stores = append(stores, *store)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return stores, nil
}

// SaveLocation stores the coordinates of a store whatever happened to it since it was read. It is
// meant for manual pins, which win over every automatic result. The address is left as it is.
func (r *Repository) SaveLocation(ctx context.Context, id uuid.UUID, loc models.Location) error {
	query := `
		UPDATE stores
		SET
			latitude = $1,
			longitude = $2,
			coord_state = $3,
			geocode_label = $4,
			geocode_provider = $5,
			resolution_error = NULL,
			updated_at = clock_timestamp()
		WHERE
			id = $6;
	`

	tag, err := r.db.Exec(ctx, query,
		loc.Coordinates.Latitude, loc.Coordinates.Longitude, loc.State, loc.Label, loc.Provider, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save store location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStoreNotFound
	}

	return nil
}

// UpdateLocation stores the address and coordinates of a store, provided the store has not been
// modified since seen, its UpdatedAt when it was read. Otherwise ErrStoreChanged is returned and
// nothing is written.
func (r *Repository) UpdateLocation(ctx context.Context, id uuid.UUID, loc models.Location, seen time.Time) error {
	query := `
		UPDATE stores
		SET
			postal_code = $1,
			prefecture = $2,
			city_town = $3,
			street = $4,
			building_line = $5,
			latitude = $6,
			longitude = $7,
			coord_state = $8,
			geocode_label = $9,
			geocode_provider = $10,
			resolution_error = NULL,
			updated_at = clock_timestamp()
		WHERE
			id = $11
			AND updated_at = $12;
	`

	return r.execGuarded(ctx, query, id, loc, seen)
}

// ApproveStore publishes a store together with the location it was approved with. Like
// UpdateLocation it fails with ErrStoreChanged when the store was modified since seen.
func (r *Repository) ApproveStore(ctx context.Context, id uuid.UUID, loc models.Location, seen time.Time) error {
	query := `
		UPDATE stores
		SET
			postal_code = $1,
			prefecture = $2,
			city_town = $3,
			street = $4,
			building_line = $5,
			latitude = $6,
			longitude = $7,
			coord_state = $8,
			geocode_label = $9,
			geocode_provider = $10,
			resolution_error = NULL,
			status = 'approved',
			updated_at = clock_timestamp()
		WHERE
			id = $11
			AND updated_at = $12;
	`

	return r.execGuarded(ctx, query, id, loc, seen)
}

func (r *Repository) execGuarded(
	ctx context.Context,
	query string,
	id uuid.UUID,
	loc models.Location,
	seen time.Time,
) error {
	tag, err := r.db.Exec(ctx, query,
		loc.Address.PostalCode, loc.Address.Prefecture, loc.Address.CityTown,
		loc.Address.Street, loc.Address.BuildingLine,
		loc.Coordinates.Latitude, loc.Coordinates.Longitude,
		loc.State, loc.Label, loc.Provider,
		id, seen,
	)
	if err != nil {
		return fmt.Errorf("failed to update store location: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1);`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check store: %w", err)
	}
	if !exists {
		return ErrStoreNotFound
	}

	r.log.InfoContext(ctx, "Store changed since it was read, location not written", "id", id)

	return ErrStoreChanged
}

// DeleteStore removes a store. Rejected submissions are deleted rather than kept.
func (r *Repository) DeleteStore(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStoreNotFound
	}

	return nil
}

// IncrementFailureCount increments the resolution attempt count for a store that is still
// unresolved and records the last error message.
func (r *Repository) IncrementFailureCount(ctx context.Context, id uuid.UUID, errMsg string) error {
	query := `
		UPDATE stores
		SET
			resolution_attempts = resolution_attempts + 1,
			resolution_error = $1
		WHERE
			id = $2
			AND coord_state = 'unresolved';
	`

	_, err := r.db.Exec(ctx, query, errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to update resolution error and number of attempts: %w", err)
	}

	return nil
}
