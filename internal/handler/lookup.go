package handler

import (
	"errors"
	"net/http"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/postal"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LookupPostal handles GET /api/postal/:code. Lookup failures answer 502 so the form can fall
// back to manual entry.
func (h *Handler) LookupPostal(c *gin.Context) {
	address, err := h.service.LookupPostal(c.Request.Context(), c.Param("code"))
	switch {
	case errors.Is(err, postal.ErrInvalidCode):
		h.writeError(c, err)
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "postal lookup unavailable"})
	case address == nil:
		c.JSON(http.StatusNotFound, gin.H{"error": "postal code not found"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"postal_code": address.PostalCode,
			"prefecture":  address.Prefecture,
			"city_town":   address.CityTown(),
		})
	}
}

// PreviewGeocode handles POST /api/geocode.
func (h *Handler) PreviewGeocode(c *gin.Context) {
	var address models.AddressInput
	if err := c.ShouldBindJSON(&address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.PreviewGeocode(c.Request.Context(), address)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if result == nil {
		c.JSON(http.StatusOK, gin.H{"resolved": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resolved": true, "result": result})
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, expires, err := h.sessions.Login(req.Password)
	if err != nil {
		h.log.WarnContext(c.Request.Context(), "Admin login rejected", "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expires})
}

// Logout handles POST /api/admin/logout.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c.GetString(tokenKey))
	c.Status(http.StatusNoContent)
}
