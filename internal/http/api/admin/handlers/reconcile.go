package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlasfield/fieldops/internal/audit"
	internalhttp "github.com/atlasfield/fieldops/internal/http"
	"github.com/atlasfield/fieldops/internal/quota"
)

// ReconcileHandler handles on-demand reconciliation runs.
type ReconcileHandler struct {
	reconciler *quota.Reconciler
	auditor    *audit.Recorder
}

// NewReconcileHandler constructs a ReconcileHandler.
func NewReconcileHandler(reconciler *quota.Reconciler, auditor *audit.Recorder) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler, auditor: auditor}
}

// reconcileRequest selects the reconciliation target.
type reconcileRequest struct {
	TenantID uint64 `json:"tenant_id"` // Zero reconciles all tenants.
}

// Run executes a reconciliation pass and returns the report.
func (h *ReconcileHandler) Run(c *gin.Context) {
	var req reconcileRequest
	if c.Request.ContentLength > 0 {
		if errBind := c.ShouldBindJSON(&req); errBind != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	var report *quota.Report
	var errRun error
	if req.TenantID != 0 {
		report, errRun = h.reconciler.Reconcile(c.Request.Context(), req.TenantID)
	} else {
		report, errRun = h.reconciler.ReconcileAll(c.Request.Context())
	}
	if errRun != nil {
		if errors.Is(errRun, quota.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconcile failed"})
		return
	}

	entry := audit.Entry{
		Actor:      internalhttp.AdminActor(c),
		Action:     audit.ActionQuotaReconciled,
		EntityType: "quota_record",
		Detail: gin.H{
			"tenants":   report.Tenants,
			"corrected": report.Drift(),
			"errors":    len(report.Errors),
		},
	}
	if req.TenantID != 0 {
		tenantID := req.TenantID
		entry.TenantID = &tenantID
	}
	h.auditor.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{"report": report})
}
