package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/invoice-umkm/internal/models"
	"github.com/diewo77/invoice-umkm/internal/plan"
)

// UsageService resolves identities, auto-provisioning unknown ones, and
// computes plan-usage snapshots from a live invoice count.
type UsageService struct {
	DB *gorm.DB
}

func NewUsageService(db *gorm.DB) *UsageService { return &UsageService{DB: db} }

// Snapshot is the plan/usage view returned by GET /usage. Limit and
// Remaining are plan.Unlimited (-1) for PRO users.
type Snapshot struct {
	Plan         plan.Plan `json:"plan"`
	InvoiceCount int       `json:"invoiceCount"`
	Limit        int       `json:"limit"`
	Remaining    int       `json:"remaining"`
	IsPro        bool      `json:"isPro"`
	CanCreate    bool      `json:"canCreate"`
}

// Resolve finds a user by id, falling back to email. Unknown identities are
// provisioned as FREE users. Provisioning is an upsert: two concurrent calls
// for the same identity both succeed and exactly one row exists afterwards,
// the database uniqueness constraints being the authority.
func (s *UsageService) Resolve(ctx context.Context, userID, email string) (*models.User, error) {
	if userID == "" && email == "" {
		return nil, &ValidationError{Message: "userId or email is required"}
	}
	var user models.User
	if userID != "" {
		err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lookup user by id: %v", ErrStorageUnavailable, err)
		}
	}
	if email != "" {
		err := s.DB.WithContext(ctx).First(&user, "email = ?", email).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lookup user by email: %v", ErrStorageUnavailable, err)
		}
	}
	return s.provision(ctx, userID, email)
}

// Lookup is Resolve without the provisioning side effect; absent users
// surface ErrNotFound.
func (s *UsageService) Lookup(ctx context.Context, userID, email string) (*models.User, error) {
	if userID == "" && email == "" {
		return nil, &ValidationError{Message: "userId or email is required"}
	}
	var user models.User
	if userID != "" {
		err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lookup user by id: %v", ErrStorageUnavailable, err)
		}
	}
	if email != "" {
		err := s.DB.WithContext(ctx).First(&user, "email = ?", email).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lookup user by email: %v", ErrStorageUnavailable, err)
		}
	}
	return nil, ErrNotFound
}

func (s *UsageService) provision(ctx context.Context, userID, email string) (*models.User, error) {
	if userID == "" {
		userID = uuid.NewString()
	}
	if email == "" {
		email = fmt.Sprintf("user-%s@invoiceumkm.local", userID)
	}
	user := models.User{ID: userID, Email: email, Plan: string(plan.Free)}
	// DO NOTHING keeps the concurrent loser harmless; the re-read below
	// returns whichever row won.
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: provision user: %v", ErrStorageUnavailable, err)
	}
	var got models.User
	if err := s.DB.WithContext(ctx).Where("id = ? OR email = ?", userID, email).First(&got).Error; err != nil {
		return nil, fmt.Errorf("%w: reload provisioned user: %v", ErrStorageUnavailable, err)
	}
	return &got, nil
}

// GetUsage returns the usage snapshot for an identity, provisioning it on
// first sight. Reading usage never mutates invoices.
func (s *UsageService) GetUsage(ctx context.Context, userID, email string) (*Snapshot, error) {
	user, err := s.Resolve(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(user, count)
}

// InvoiceCount is the exact number of invoices owned by a user.
func (s *UsageService) InvoiceCount(ctx context.Context, userID string) (int, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Invoice{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count invoices: %v", ErrStorageUnavailable, err)
	}
	return int(count), nil
}

func (s *UsageService) snapshot(user *models.User, count int) (*Snapshot, error) {
	p, err := plan.Parse(user.Plan)
	if err != nil {
		return nil, err
	}
	limit, err := plan.LimitFor(p)
	if err != nil {
		return nil, err
	}
	remaining, err := plan.Remaining(count, p)
	if err != nil {
		return nil, err
	}
	canCreate, err := plan.CanCreate(count, p)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Plan:         p,
		InvoiceCount: count,
		Limit:        limit,
		Remaining:    remaining,
		IsPro:        p == plan.Pro,
		CanCreate:    canCreate,
	}, nil
}

// Upgrade flips a user's plan to PRO. Already-PRO users are a no-op success.
// There is no payment integration; the endpoint simulates a completed
// checkout.
func (s *UsageService) Upgrade(ctx context.Context, userID, email string) (*models.User, error) {
	user, err := s.Lookup(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	if user.Plan == string(plan.Pro) {
		return user, nil
	}
	if err := s.DB.WithContext(ctx).Model(user).Update("plan", string(plan.Pro)).Error; err != nil {
		return nil, fmt.Errorf("%w: upgrade plan: %v", ErrStorageUnavailable, err)
	}
	user.Plan = string(plan.Pro)
	return user, nil
}
