package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atlasfield/fieldops/internal/audit"
	internalhttp "github.com/atlasfield/fieldops/internal/http"
	"github.com/atlasfield/fieldops/internal/models"
	"github.com/atlasfield/fieldops/internal/quota"
)

// QuotaHandler handles admin quota endpoints.
type QuotaHandler struct {
	store   *quota.Store
	guard   *quota.Guard
	auditor *audit.Recorder
}

// NewQuotaHandler constructs a QuotaHandler.
func NewQuotaHandler(store *quota.Store, guard *quota.Guard, auditor *audit.Recorder) *QuotaHandler {
	return &QuotaHandler{store: store, guard: guard, auditor: auditor}
}

// quotaView shapes a quota record for display.
type quotaView struct {
	ResourceType    string  `json:"resource_type"`
	Limit           int64   `json:"limit"`
	Usage           int64   `json:"usage"`
	Status          string  `json:"status"`
	UsagePercentage float64 `json:"usage_percentage"`
	ResetAt         any     `json:"reset_at,omitempty"`
}

func newQuotaView(record models.QuotaRecord) quotaView {
	view := quotaView{
		ResourceType: record.ResourceType,
		Limit:        record.Limit,
		Usage:        record.Usage,
		Status:       record.Status,
	}
	if record.Status != models.QuotaStatusInactive {
		view.UsagePercentage = quota.Evaluate(record.Limit, record.Usage).UsagePercentage
	}
	if record.ResetAt != nil {
		view.ResetAt = record.ResetAt
	}
	return view
}

// List returns all quota records for a tenant.
func (h *QuotaHandler) List(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	records, errList := h.store.List(c.Request.Context(), tenantID)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list quotas failed"})
		return
	}

	out := make([]quotaView, 0, len(records))
	for _, record := range records {
		out = append(out, newQuotaView(record))
	}
	c.JSON(http.StatusOK, gin.H{"quotas": out, "total": len(out)})
}

// Get returns one quota record.
func (h *QuotaHandler) Get(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}
	resourceType := strings.TrimSpace(c.Param("type"))

	record, errGet := h.store.Get(c.Request.Context(), tenantID, resourceType)
	if errGet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get quota failed"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quota not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quota": newQuotaView(*record)})
}

// quotaUpdateRequest defines the limit/tracking override payload.
type quotaUpdateRequest struct {
	Limit   *int64 `json:"limit"`   // New limit; negative means unlimited.
	Enabled *bool  `json:"enabled"` // Toggles quota tracking.
}

// Update applies an administrative limit or tracking override.
func (h *QuotaHandler) Update(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}
	resourceType := strings.TrimSpace(c.Param("type"))

	var req quotaUpdateRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Limit == nil && req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit or enabled is required"})
		return
	}

	var record *models.QuotaRecord
	if req.Limit != nil {
		updated, errSet := h.store.SetLimit(c.Request.Context(), tenantID, resourceType, *req.Limit)
		if errSet != nil {
			respondQuotaUpdateError(c, errSet)
			return
		}
		record = updated

		h.auditor.Record(c.Request.Context(), audit.Entry{
			TenantID:   &tenantID,
			Actor:      internalhttp.AdminActor(c),
			Action:     audit.ActionQuotaLimitUpdated,
			EntityType: "quota_record",
			EntityID:   updated.ID,
			Detail:     gin.H{"resource_type": resourceType, "limit": *req.Limit},
		})
	}
	if req.Enabled != nil {
		updated, errSet := h.store.SetTrackingEnabled(c.Request.Context(), tenantID, resourceType, *req.Enabled)
		if errSet != nil {
			respondQuotaUpdateError(c, errSet)
			return
		}
		record = updated
	}

	c.JSON(http.StatusOK, gin.H{"quota": newQuotaView(*record)})
}

// Check runs an admission check without reserving capacity. External
// resource-creation paths call this before committing a create.
func (h *QuotaHandler) Check(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}
	resourceType := strings.TrimSpace(c.Param("type"))

	decision, errCheck := h.guard.CheckAndReserve(c.Request.Context(), tenantID, resourceType)
	if errCheck != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "quota check failed"})
		return
	}
	if decision.Allowed {
		c.JSON(http.StatusOK, gin.H{"allowed": true})
		return
	}

	h.auditor.Record(c.Request.Context(), audit.Entry{
		TenantID:   &tenantID,
		Actor:      internalhttp.AdminActor(c),
		Action:     audit.ActionQuotaDenied,
		EntityType: "quota_record",
		Detail: gin.H{
			"resource_type": decision.Reason.ResourceType,
			"limit":         decision.Reason.Limit,
			"usage":         decision.Reason.Usage,
		},
	})
	c.JSON(http.StatusOK, gin.H{
		"allowed": false,
		"reason": gin.H{
			"resource_type": decision.Reason.ResourceType,
			"limit":         decision.Reason.Limit,
			"usage":         decision.Reason.Usage,
			"message":       decision.Reason.Error(),
		},
	})
}

func respondQuotaUpdateError(c *gin.Context, err error) {
	if errors.Is(err, quota.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "quota not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "update quota failed"})
}
