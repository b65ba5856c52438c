package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrStoreNotFound is returned when no store has the requested ID.
	ErrStoreNotFound = errors.New("store not found")
	// ErrStoreChanged is returned when a guarded write finds the store modified since it was read.
	ErrStoreChanged = errors.New("store was modified by another request")
	// ErrCommentNotFound is returned when no comment has the requested ID.
	ErrCommentNotFound = errors.New("comment not found")
)

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	CreateStore(ctx context.Context, store *models.Store) error
	GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListStores(ctx context.Context, filter StoreFilter) ([]models.Store, error)
	SaveLocation(ctx context.Context, id uuid.UUID, loc models.Location) error
	UpdateLocation(ctx context.Context, id uuid.UUID, loc models.Location, seen time.Time) error
	ApproveStore(ctx context.Context, id uuid.UUID, loc models.Location, seen time.Time) error
	DeleteStore(ctx context.Context, id uuid.UUID) error
	FetchStoresForResolution(ctx context.Context, limit int) ([]models.Store, error)
	IncrementFailureCount(ctx context.Context, id uuid.UUID, errMsg string) error
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error)
	ApproveComment(ctx context.Context, id uuid.UUID) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
