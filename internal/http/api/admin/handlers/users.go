package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atlasfield/fieldops/internal/audit"
	internalhttp "github.com/atlasfield/fieldops/internal/http"
	"github.com/atlasfield/fieldops/internal/quota"
	"github.com/atlasfield/fieldops/internal/user"
)

// UserHandler handles admin user endpoints.
type UserHandler struct {
	users   *user.Service
	auditor *audit.Recorder
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *user.Service, auditor *audit.Recorder) *UserHandler {
	return &UserHandler{users: users, auditor: auditor}
}

// userCreateRequest defines the user creation payload.
type userCreateRequest struct {
	Name     string `json:"name" binding:"required"`     // Display name.
	Email    string `json:"email" binding:"required"`    // Email, unique per tenant.
	Password string `json:"password" binding:"required"` // Plaintext password, hashed at rest.
}

// userView shapes a user for display, never exposing the password hash.
type userView struct {
	ID       uint64 `json:"id"`
	TenantID uint64 `json:"tenant_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Create adds a user behind the quota guard.
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req userCreateRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	row, errCreate := h.users.Create(c.Request.Context(), tenantID, user.CreateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if errCreate != nil {
		var exceeded *quota.QuotaExceededError
		switch {
		case errors.As(errCreate, &exceeded):
			h.auditor.Record(c.Request.Context(), audit.Entry{
				TenantID:   &tenantID,
				Actor:      internalhttp.AdminActor(c),
				Action:     audit.ActionQuotaDenied,
				EntityType: "user",
				Detail: gin.H{
					"resource_type": exceeded.ResourceType,
					"limit":         exceeded.Limit,
					"usage":         exceeded.Usage,
				},
			})
			c.JSON(http.StatusForbidden, gin.H{"error": exceeded.Error()})
		case errors.Is(errCreate, user.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create user failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userView{
		ID:       row.ID,
		TenantID: row.TenantID,
		Name:     row.Name,
		Email:    row.Email,
		IsActive: row.IsActive,
	}})
}

// Deactivate marks a user inactive, releasing its quota unit.
func (h *UserHandler) Deactivate(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}
	userID, errParse := strconv.ParseUint(c.Param("userId"), 10, 64)
	if errParse != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if errDeactivate := h.users.Deactivate(c.Request.Context(), tenantID, userID); errDeactivate != nil {
		if errors.Is(errDeactivate, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "deactivate user failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
