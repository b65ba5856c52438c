package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the moderation status of a comment.
type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
)

// AnonymousCommenter is shown when a commenter leaves the name empty.
const AnonymousCommenter = "匿名"

// Comment is a community note on a store. Only approved comments are public.
type Comment struct {
	ID            uuid.UUID     `json:"id"`
	StoreID       uuid.UUID     `json:"store_id"`
	CommenterName string        `json:"commenter_name"`
	Content       string        `json:"content"`
	Status        CommentStatus `json:"status"`
	SubmitterID   string        `json:"-"` // Browser-generated id, used by moderators only
	CreatedAt     time.Time     `json:"created_at"`
}
