package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgForeignKeyViolation is the SQLSTATE of a foreign key violation.
const pgForeignKeyViolation = "23503"

// CommentFilter selects comments for ListComments. A nil StoreID matches every store.
type CommentFilter struct {
	StoreID uuid.UUID
	Status  models.CommentStatus
	Limit   int
}

// CreateComment inserts a comment. A zero ID is replaced by a fresh one. A comment on a store
// that does not exist fails with ErrStoreNotFound.
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, store_id, commenter_name, content, status, submitter_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at;
	`

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		comment.ID, comment.StoreID, comment.CommenterName, comment.Content, comment.Status, comment.SubmitterID,
	).Scan(&comment.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrStoreNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// ListComments returns up to filter.Limit comments matching filter, newest first.
func (r *Repository) ListComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error) {
	where := []string{"status = $1"}
	args := []any{filter.Status}

	if filter.StoreID != uuid.Nil {
		args = append(args, filter.StoreID)
		where = append(where, fmt.Sprintf("store_id = $%d", len(args)))
	}
	args = append(args, filter.Limit)

	query := fmt.Sprintf(`
		SELECT id::text, store_id::text, commenter_name, content, status, submitter_id, created_at
		FROM comments
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d;
	`, strings.Join(where, " AND "), len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var (
			comment    models.Comment
			id, parent string
		)
		if err = rows.Scan(
			&id, &parent, &comment.CommenterName, &comment.Content,
			&comment.Status, &comment.SubmitterID, &comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if comment.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid comment id %q: %w", id, err)
		}
		if comment.StoreID, err = uuid.Parse(parent); err != nil {
			return nil, fmt.Errorf("invalid store id %q: %w", parent, err)
		}
		comments = append(comments, comment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return comments, nil
}

// ApproveComment makes a comment public.
func (r *Repository) ApproveComment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET status = 'approved' WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to approve comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}

	return nil
}

// DeleteComment removes a comment. Rejected comments are deleted rather than kept.
func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}

	return nil
}
