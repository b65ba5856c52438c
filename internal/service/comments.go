package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/google/uuid"
)

// ErrInvalidComment is returned when a comment is empty or too long.
var ErrInvalidComment = errors.New("invalid comment")

const (
	maxCommenterName = 30
	maxCommentLength = 500
	commentLimit     = 100
)

// CommentSubmission is a comment left by a visitor on a published store.
type CommentSubmission struct {
	StoreID     uuid.UUID
	Name        string // Optional, AnonymousCommenter when empty
	Content     string
	SubmitterID string // Optional browser-generated uuid
}

// SubmitComment validates sub and stores it for moderation. Comments are only accepted on
// published stores.
func (s *StoreService) SubmitComment(ctx context.Context, sub CommentSubmission) (*models.Comment, error) {
	comment, err := newComment(sub)
	if err != nil {
		return nil, err
	}

	store, err := s.repo.GetStore(ctx, sub.StoreID)
	if err != nil {
		return nil, err
	}
	if store.Status != models.StatusApproved {
		return nil, repository.ErrStoreNotFound
	}

	if err = s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.log.InfoContext(ctx, "Comment submitted", "id", comment.ID, "store", comment.StoreID)

	return comment, nil
}

func newComment(sub CommentSubmission) (*models.Comment, error) {
	content := strings.TrimSpace(sub.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidComment)
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, fmt.Errorf("%w: content is longer than %d characters", ErrInvalidComment, maxCommentLength)
	}

	name := strings.TrimSpace(sub.Name)
	if name == "" {
		name = models.AnonymousCommenter
	}
	if utf8.RuneCountInString(name) > maxCommenterName {
		return nil, fmt.Errorf("%w: name is longer than %d characters", ErrInvalidComment, maxCommenterName)
	}

	var submitter string
	if raw := strings.TrimSpace(sub.SubmitterID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: submitter id is not a uuid", ErrInvalidComment)
		}
		submitter = id.String()
	}

	return &models.Comment{
		StoreID:       sub.StoreID,
		CommenterName: name,
		Content:       content,
		Status:        models.CommentPending,
		SubmitterID:   submitter,
	}, nil
}

// ListComments returns the approved comments of a store, newest first.
func (s *StoreService) ListComments(ctx context.Context, storeID uuid.UUID) ([]models.Comment, error) {
	return s.repo.ListComments(ctx, repository.CommentFilter{
		StoreID: storeID,
		Status:  models.CommentApproved,
		Limit:   commentLimit,
	})
}

// ListPendingComments returns the comments waiting for moderation across all stores.
func (s *StoreService) ListPendingComments(ctx context.Context) ([]models.Comment, error) {
	return s.repo.ListComments(ctx, repository.CommentFilter{Status: models.CommentPending, Limit: listLimit})
}

// ApproveComment publishes a comment.
func (s *StoreService) ApproveComment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.ApproveComment(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Comment approved", "id", id)

	return nil
}

// RejectComment deletes a comment.
func (s *StoreService) RejectComment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteComment(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Comment rejected", "id", id)

	return nil
}
