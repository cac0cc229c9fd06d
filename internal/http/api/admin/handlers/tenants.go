package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atlasfield/fieldops/internal/audit"
	internalhttp "github.com/atlasfield/fieldops/internal/http"
	"github.com/atlasfield/fieldops/internal/quota"
	"github.com/atlasfield/fieldops/internal/tenant"
)

// TenantHandler handles admin tenant endpoints.
type TenantHandler struct {
	tenants *tenant.Service
	auditor *audit.Recorder
}

// NewTenantHandler constructs a TenantHandler.
func NewTenantHandler(tenants *tenant.Service, auditor *audit.Recorder) *TenantHandler {
	return &TenantHandler{tenants: tenants, auditor: auditor}
}

// tenantCreateRequest defines the tenant provisioning payload.
type tenantCreateRequest struct {
	Name string `json:"name" binding:"required"` // Display name.
	Slug string `json:"slug"`                    // Optional URL-safe identifier.
	Plan string `json:"plan"`                    // Optional plan name.
}

// Create provisions a tenant with its quota records.
func (h *TenantHandler) Create(c *gin.Context) {
	var req tenantCreateRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	row, errCreate := h.tenants.Create(c.Request.Context(), tenant.CreateParams{
		Name: req.Name,
		Slug: req.Slug,
		Plan: req.Plan,
	})
	if errCreate != nil {
		if errors.Is(errCreate, tenant.ErrTenantExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "tenant already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create tenant failed"})
		return
	}

	tenantID := row.ID
	h.auditor.Record(c.Request.Context(), audit.Entry{
		TenantID:   &tenantID,
		Actor:      internalhttp.AdminActor(c),
		Action:     audit.ActionTenantProvisioned,
		EntityType: "tenant",
		EntityID:   row.ID,
		Detail:     gin.H{"name": row.Name, "plan": row.Plan},
	})

	c.JSON(http.StatusCreated, gin.H{"tenant": row})
}

// List returns all tenants.
func (h *TenantHandler) List(c *gin.Context) {
	rows, errList := h.tenants.List(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list tenants failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": rows, "total": len(rows)})
}

// Get returns one tenant by ID.
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}
	row, errGet := h.tenants.Get(c.Request.Context(), tenantID)
	if errGet != nil {
		if errors.Is(errGet, quota.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get tenant failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenant": row})
}

// Delete removes a tenant and its quota records.
func (h *TenantHandler) Delete(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}
	if errDelete := h.tenants.Delete(c.Request.Context(), tenantID); errDelete != nil {
		if errors.Is(errDelete, quota.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete tenant failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// parseTenantID reads the :id path parameter, responding with 400 on
// malformed input.
func parseTenantID(c *gin.Context) (uint64, bool) {
	raw := c.Param("id")
	parsed, errParse := strconv.ParseUint(raw, 10, 64)
	if errParse != nil || parsed == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return 0, false
	}
	return parsed, true
}
