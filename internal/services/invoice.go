package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/invoice-umkm/internal/models"
	"github.com/diewo77/invoice-umkm/internal/plan"
	"github.com/diewo77/invoice-umkm/internal/validation"
)

// InvoiceService encapsulates invoice business logic: validation, total and
// number derivation, plan gating, and persistence.
type InvoiceService struct {
	DB    *gorm.DB
	Usage *UsageService
}

func NewInvoiceService(db *gorm.DB, usage *UsageService) *InvoiceService {
	return &InvoiceService{DB: db, Usage: usage}
}

// ItemInput is one invoice line as submitted by the client.
type ItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// CreateInput is the POST /invoices payload. Totals and the invoice number
// are always derived server-side, never read from the client.
type CreateInput struct {
	UserID        string      `json:"userId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerPhone string      `json:"customerPhone"`
	Address       string      `json:"address"`
	Notes         string      `json:"notes"`
	LogoURL       string      `json:"logoUrl"`
	ThemeColor    string      `json:"themeColor"`
	Items         []ItemInput `json:"items"`
}

// UpdateInput is the PUT /invoices/{id} patch. Only the named fields can
// change; nil means "leave as is". Unknown fields are rejected at decode
// time by the handler.
type UpdateInput struct {
	CustomerName  *string     `json:"customerName"`
	CustomerEmail *string     `json:"customerEmail"`
	CustomerPhone *string     `json:"customerPhone"`
	Address       *string     `json:"address"`
	Notes         *string     `json:"notes"`
	LogoURL       *string     `json:"logoUrl"`
	Status        *string     `json:"status"`
	ThemeColor    *string     `json:"themeColor"`
	Items         []ItemInput `json:"items"`
}

var statusValues = []string{"pending", "paid", "overdue"}

// Total sums quantity×price over the items using decimal arithmetic, so the
// order of float additions cannot leak into the stored amount.
func Total(items []ItemInput) float64 {
	sum := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	f, _ := sum.Float64()
	return f
}

var numberSuffix func() string

func init() {
	g, err := nanoid.CustomASCII("0123456789", 3)
	if err != nil {
		panic(err) // static alphabet and length, cannot fail
	}
	numberSuffix = g
}

// InvoiceNumber builds a human-readable label: a fixed prefix, the last six
// digits of the current unix-millisecond clock, and a random three-digit
// disambiguator. Display only; not guaranteed unique and never used as a key.
func InvoiceNumber() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	return "INV-" + millis[len(millis)-6:] + "-" + numberSuffix()
}

// InvoiceNumberPattern matches labels produced by InvoiceNumber.
var InvoiceNumberPattern = regexp.MustCompile(`^INV-\d{6}-\d{3}$`)

func validateItems(items []ItemInput, v validation.Violations) {
	if len(items) == 0 {
		v["items"] = "at_least_one_item"
		return
	}
	for i, it := range items {
		prefix := fmt.Sprintf("items[%d].", i)
		validation.Required(prefix+"name", it.Name, v)
		validation.MinInt(prefix+"quantity", it.Quantity, 1, v)
		validation.NonNegativeFloat(prefix+"price", it.Price, v)
	}
}

func validateCreate(in CreateInput) *ValidationError {
	v := validation.Violations{}
	validation.Required("userId", in.UserID, v)
	validation.Required("customerName", in.CustomerName, v)
	validation.Email("customerEmail", in.CustomerEmail, v)
	validateItems(in.Items, v)
	if v.Empty() {
		return nil
	}
	return &ValidationError{Message: v.First(), Violations: v}
}

func validateUpdate(in UpdateInput) *ValidationError {
	v := validation.Violations{}
	if in.CustomerName != nil {
		validation.Required("customerName", *in.CustomerName, v)
	}
	if in.CustomerEmail != nil {
		validation.Email("customerEmail", *in.CustomerEmail, v)
	}
	if in.Status != nil {
		validation.OneOf("status", *in.Status, statusValues, v)
	}
	if in.Items != nil {
		validateItems(in.Items, v)
	}
	if v.Empty() {
		return nil
	}
	return &ValidationError{Message: v.First(), Violations: v}
}

func buildItems(invoiceID string, items []ItemInput) []models.InvoiceItem {
	rows := make([]models.InvoiceItem, 0, len(items))
	for i, it := range items {
		rows = append(rows, models.InvoiceItem{
			InvoiceID:   invoiceID,
			Seq:         i,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return rows
}

// Create validates the input, re-checks the plan gate, and persists the
// invoice with its items in one transaction. The owner is auto-provisioned
// if unknown, so a fresh client identity can create its first invoice
// without a prior /usage call.
func (s *InvoiceService) Create(ctx context.Context, in CreateInput) (*models.Invoice, error) {
	if verr := validateCreate(in); verr != nil {
		return nil, verr
	}
	// Owner resolution is by id only: the customer email on the invoice is
	// the customer's, not the account's, and must not steer ownership.
	user, err := s.Usage.Resolve(ctx, in.UserID, "")
	if err != nil {
		return nil, err
	}
	count, err := s.Usage.InvoiceCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	p, err := plan.Parse(user.Plan)
	if err != nil {
		return nil, err
	}
	can, err := plan.CanCreate(count, p)
	if err != nil {
		return nil, err
	}
	if !can {
		return nil, ErrLimitReached
	}
	features, err := plan.FeaturesFor(p)
	if err != nil {
		return nil, err
	}

	themeColor := in.ThemeColor
	if themeColor == "" {
		themeColor = "#000000"
	}
	inv := models.Invoice{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		InvoiceNumber: InvoiceNumber(),
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Address:       in.Address,
		Notes:         in.Notes,
		LogoURL:       in.LogoURL,
		ThemeColor:    themeColor,
		Total:         Total(in.Items),
		Status:        "pending",
		// Plan snapshots at creation time; a later upgrade or downgrade
		// does not rewrite existing invoices.
		IsPro:   p == plan.Pro,
		HasQris: features.Qris,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		return tx.Create(buildItems(inv.ID, in.Items)).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create invoice: %v", ErrStorageUnavailable, err)
	}
	return s.Get(ctx, inv.ID)
}

// Get loads one invoice with its items in insertion order.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load invoice: %v", ErrStorageUnavailable, err)
	}
	return &inv, nil
}

// List returns invoices newest first, optionally scoped to one user.
// limit defaults to 20 and is capped at 100.
func (s *InvoiceService) List(ctx context.Context, userID string, limit int) ([]models.Invoice, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	q := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Order("created_at desc").
		Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var invs []models.Invoice
	if err := q.Find(&invs).Error; err != nil {
		return nil, fmt.Errorf("%w: list invoices: %v", ErrStorageUnavailable, err)
	}
	return invs, nil
}

// Update applies a patch to one invoice. When items change, the old rows are
// replaced and the total recomputed inside the same transaction.
func (s *InvoiceService) Update(ctx context.Context, id string, in UpdateInput) (*models.Invoice, error) {
	if verr := validateUpdate(in); verr != nil {
		return nil, verr
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.CustomerName != nil {
		updates["customer_name"] = *in.CustomerName
	}
	if in.CustomerEmail != nil {
		updates["customer_email"] = *in.CustomerEmail
	}
	if in.CustomerPhone != nil {
		updates["customer_phone"] = *in.CustomerPhone
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.LogoURL != nil {
		updates["logo_url"] = *in.LogoURL
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.ThemeColor != nil {
		updates["theme_color"] = *in.ThemeColor
	}
	if in.Items != nil {
		updates["total"] = Total(in.Items)
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Invoice{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Items != nil {
			if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}
			if err := tx.Create(buildItems(id, in.Items)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: update invoice: %v", ErrStorageUnavailable, err)
	}
	return s.Get(ctx, id)
}

// Delete hard-deletes an invoice and its items. No soft-delete, no audit
// trail.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("%w: delete invoice: %v", ErrStorageUnavailable, err)
	}
	return nil
}
