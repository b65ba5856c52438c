// Package handler exposes the store locator over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/postal"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/UnknownOlympus/pinpoint/internal/resolution"
	"github.com/UnknownOlympus/pinpoint/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StoreService is the application API the handlers depend on.
type StoreService interface {
	Submit(ctx context.Context, sub service.Submission) (*models.Store, error)
	ListPending(ctx context.Context) ([]models.Store, error)
	ListApproved(ctx context.Context, q service.StoreQuery) ([]models.Store, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Store, error)
	Approve(ctx context.Context, id uuid.UUID, allowUnresolved bool) (*models.Store, error)
	Reject(ctx context.Context, id uuid.UUID) error
	OverrideLocation(ctx context.Context, id uuid.UUID, point models.Coordinates) (*models.Store, error)
	EditAddress(ctx context.Context, id uuid.UUID, address models.AddressInput) (*models.Store, error)
	LookupPostal(ctx context.Context, code string) (*models.PostalAddress, error)
	PreviewGeocode(ctx context.Context, address models.AddressInput) (*models.GeocodeResult, error)
	Revalidate(ctx context.Context) (service.RevalidateReport, error)
	SubmitComment(ctx context.Context, sub service.CommentSubmission) (*models.Comment, error)
	ListComments(ctx context.Context, storeID uuid.UUID) ([]models.Comment, error)
	ListPendingComments(ctx context.Context) ([]models.Comment, error)
	ApproveComment(ctx context.Context, id uuid.UUID) error
	RejectComment(ctx context.Context, id uuid.UUID) error
}

// Handler serves the public and admin store locator API.
type Handler struct {
	service  StoreService
	sessions *SessionStore
	log      *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc StoreService, sessions *SessionStore, log *slog.Logger) *Handler {
	return &Handler{service: svc, sessions: sessions, log: log}
}

// NewRouter wires every route onto a new gin engine.
func NewRouter(h *Handler, debug bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), Logger(h.log, debug))

	api := router.Group("/api")
	api.GET("/stores", h.ListApproved)
	api.POST("/stores", h.Submit)
	api.GET("/stores/:id/comments", h.ListComments)
	api.POST("/stores/:id/comments", h.SubmitComment)
	api.GET("/postal/:code", h.LookupPostal)
	api.POST("/geocode", h.PreviewGeocode)
	api.POST("/admin/login", h.Login)

	admin := api.Group("/admin", AdminAuth(h.sessions))
	admin.POST("/logout", h.Logout)
	admin.GET("/stores/pending", h.ListPending)
	admin.GET("/stores/:id", h.Get)
	admin.POST("/stores/:id/approve", h.Approve)
	admin.DELETE("/stores/:id", h.Reject)
	admin.PUT("/stores/:id/address", h.EditAddress)
	admin.PUT("/stores/:id/location", h.OverrideLocation)
	admin.POST("/revalidate", h.Revalidate)
	admin.GET("/comments/pending", h.ListPendingComments)
	admin.POST("/comments/:id/approve", h.ApproveComment)
	admin.DELETE("/comments/:id", h.RejectComment)

	return router
}

// writeError maps service errors onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidStore),
		errors.Is(err, models.ErrInvalidPrefecture),
		errors.Is(err, models.ErrInvalidPostalCode),
		errors.Is(err, models.ErrOutOfRange),
		errors.Is(err, resolution.ErrSentinelPoint),
		errors.Is(err, resolution.ErrUnknownFallback),
		errors.Is(err, postal.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrStoreNotFound), errors.Is(err, repository.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrStoreChanged):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, resolution.ErrUnresolved):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "unresolved"})
	case errors.Is(err, resolution.ErrManualOverrideRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "manual_override_required"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		h.log.ErrorContext(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	return parseParam(c, "invalid store id")
}

func parseParam(c *gin.Context, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return uuid.Nil, false
	}

	return id, true
}
