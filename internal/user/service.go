package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/atlasfield/fieldops/internal/models"
	"github.com/atlasfield/fieldops/internal/quota"
	"github.com/atlasfield/fieldops/internal/security"
)

// Service errors.
var (
	// ErrUserNotFound indicates no user matches the tenant and ID.
	ErrUserNotFound = errors.New("user: not found")
	// ErrEmailTaken indicates the email is already registered in the tenant.
	ErrEmailTaken = errors.New("user: email already registered")
	// ErrBadCredentials indicates a failed authentication attempt.
	ErrBadCredentials = errors.New("user: bad credentials")
)

// CreateParams holds inputs for user creation.
type CreateParams struct {
	Name     string
	Email    string
	Password string
}

// Service manages tenant-scoped user accounts. Creation goes through the
// quota guard, making this the reference resource-creation path: check,
// create, then bump the cached counter.
type Service struct {
	db    *gorm.DB
	guard *quota.Guard
}

// NewService constructs a Service.
func NewService(db *gorm.DB, guard *quota.Guard) *Service {
	if db == nil || guard == nil {
		return nil
	}
	return &Service{db: db, guard: guard}
}

// Create adds an active user after a quota admission check. A denied check
// returns the guard's QuotaExceededError so callers can surface the reason.
func (s *Service) Create(ctx context.Context, tenantID uint64, params CreateParams) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("user: service not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	name := strings.TrimSpace(params.Name)
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if name == "" || email == "" || params.Password == "" {
		return nil, errors.New("user: name, email and password are required")
	}

	decision, errCheck := s.guard.CheckAndReserve(ctx, tenantID, models.ResourceTypeUsers)
	if errCheck != nil {
		return nil, errCheck
	}
	if !decision.Allowed {
		return nil, decision.Reason
	}

	hash, errHash := security.HashPassword(params.Password)
	if errHash != nil {
		return nil, fmt.Errorf("user: hash password: %w", errHash)
	}

	row := models.User{
		TenantID: tenantID,
		Name:     name,
		Email:    email,
		Password: hash,
		IsActive: true,
	}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if errCount := tx.Model(&models.User{}).
			Where("tenant_id = ? AND email = ?", tenantID, email).
			Count(&existing).Error; errCount != nil {
			return errCount
		}
		if existing > 0 {
			return ErrEmailTaken
		}
		return tx.Create(&row).Error
	})
	if errTx != nil {
		return nil, errTx
	}

	// Best-effort counter bump; reconciliation corrects any miss.
	if errIncr := s.guard.IncrementUsage(ctx, tenantID, models.ResourceTypeUsers, 1); errIncr != nil {
		log.WithError(errIncr).Warnf("user: usage bump failed, counter will drift until reconcile (tenant=%d)", tenantID)
	}
	return &row, nil
}

// Deactivate marks a user inactive and releases its quota unit. Already
// inactive users are left untouched.
func (s *Service) Deactivate(ctx context.Context, tenantID, userID uint64) error {
	if s == nil || s.db == nil {
		return errors.New("user: service not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND tenant_id = ? AND is_active = ?", userID, tenantID, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if errCount := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND tenant_id = ?", userID, tenantID).
			Count(&exists).Error; errCount != nil {
			return errCount
		}
		if exists == 0 {
			return ErrUserNotFound
		}
		return nil
	}

	if errDecr := s.guard.DecrementUsage(ctx, tenantID, models.ResourceTypeUsers, 1); errDecr != nil {
		log.WithError(errDecr).Warnf("user: usage release failed, counter will drift until reconcile (tenant=%d)", tenantID)
	}
	return nil
}

// Authenticate verifies a tenant user's credentials. Inactive accounts
// cannot sign in.
func (s *Service) Authenticate(ctx context.Context, tenantID uint64, email, password string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("user: service not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var row models.User
	errFind := s.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ? AND is_active = ?", tenantID, strings.ToLower(strings.TrimSpace(email)), true).
		First(&row).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if errFind != nil {
		return nil, errFind
	}
	if !security.CheckPassword(row.Password, password) {
		return nil, ErrBadCredentials
	}
	return &row, nil
}
