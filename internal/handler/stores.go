package handler

import (
	"net/http"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/resolution"
	"github.com/UnknownOlympus/pinpoint/internal/service"
	"github.com/gin-gonic/gin"
)

type submitRequest struct {
	Name            string              `json:"name"             binding:"required"`
	Address         models.AddressInput `json:"address"`
	Pin             *models.Coordinates `json:"pin"`
	Fallback        string              `json:"fallback"`
	FabAvailable    bool                `json:"fab_available"`
	ArmoryAvailable bool                `json:"armory_available"`
	FormatText      string              `json:"format_text"`
	Notes           string              `json:"notes"`
	Author          string              `json:"author"`
}

type approveRequest struct {
	AllowUnresolved bool `json:"allow_unresolved"`
}

// ListApproved handles GET /api/stores. The optional prefecture and q query parameters narrow
// the list to one prefecture and to names containing q.
func (h *Handler) ListApproved(c *gin.Context) {
	stores, err := h.service.ListApproved(c.Request.Context(), service.StoreQuery{
		Prefecture: c.Query("prefecture"),
		Name:       c.Query("q"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(stores))
}

// Submit handles POST /api/stores.
func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fallback, err := resolution.ParseFallback(req.Fallback)
	if err != nil {
		h.writeError(c, err)
		return
	}

	store, err := h.service.Submit(c.Request.Context(), service.Submission{
		Name:            req.Name,
		Address:         req.Address,
		Pin:             req.Pin,
		Fallback:        fallback,
		FabAvailable:    req.FabAvailable,
		ArmoryAvailable: req.ArmoryAvailable,
		FormatText:      req.FormatText,
		Notes:           req.Notes,
		Author:          req.Author,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, store)
}

// ListPending handles GET /api/admin/stores/pending.
func (h *Handler) ListPending(c *gin.Context) {
	stores, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(stores))
}

// Get handles GET /api/admin/stores/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	store, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

// Approve handles POST /api/admin/stores/:id/approve. The body is optional.
func (h *Handler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req approveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	store, err := h.service.Approve(c.Request.Context(), id, req.AllowUnresolved)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

// Reject handles DELETE /api/admin/stores/:id.
func (h *Handler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Reject(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// EditAddress handles PUT /api/admin/stores/:id/address.
func (h *Handler) EditAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var address models.AddressInput
	if err := c.ShouldBindJSON(&address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	store, err := h.service.EditAddress(c.Request.Context(), id, address)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

// OverrideLocation handles PUT /api/admin/stores/:id/location.
func (h *Handler) OverrideLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var point models.Coordinates
	if err := c.ShouldBindJSON(&point); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	store, err := h.service.OverrideLocation(c.Request.Context(), id, point)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

// Revalidate handles POST /api/admin/revalidate.
func (h *Handler) Revalidate(c *gin.Context) {
	report, err := h.service.Revalidate(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
