package handler

import (
	"net/http"

	"github.com/UnknownOlympus/pinpoint/internal/service"
	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	CommenterName string `json:"commenter_name"`
	Content       string `json:"content"        binding:"required"`
	SubmitterID   string `json:"submitter_id"`
}

// ListComments handles GET /api/stores/:id/comments.
func (h *Handler) ListComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(comments))
}

// SubmitComment handles POST /api/stores/:id/comments. The comment is hidden until an admin
// approves it.
func (h *Handler) SubmitComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.service.SubmitComment(c.Request.Context(), service.CommentSubmission{
		StoreID:     id,
		Name:        req.CommenterName,
		Content:     req.Content,
		SubmitterID: req.SubmitterID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListPendingComments handles GET /api/admin/comments/pending.
func (h *Handler) ListPendingComments(c *gin.Context) {
	comments, err := h.service.ListPendingComments(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(comments))
}

// ApproveComment handles POST /api/admin/comments/:id/approve.
func (h *Handler) ApproveComment(c *gin.Context) {
	id, ok := parseParam(c, "invalid comment id")
	if !ok {
		return
	}

	if err := h.service.ApproveComment(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RejectComment handles DELETE /api/admin/comments/:id.
func (h *Handler) RejectComment(c *gin.Context) {
	id, ok := parseParam(c, "invalid comment id")
	if !ok {
		return
	}

	if err := h.service.RejectComment(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
