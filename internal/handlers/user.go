package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/invoice-umkm/internal/httpx"
	"github.com/diewo77/invoice-umkm/internal/models"
	"github.com/diewo77/invoice-umkm/internal/services"
	"github.com/diewo77/invoice-umkm/internal/validation"
)

type UserHandler struct {
	DB  *gorm.DB
	Svc *services.UsageService
}

func NewUserHandler(db *gorm.DB, svc *services.UsageService) *UserHandler {
	return &UserHandler{DB: db, Svc: svc}
}

// GetByEmail: GET /users?email=. User plus their five most recent invoices.
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httpx.Fail(w, http.StatusBadRequest, "email is required")
		return
	}
	var user models.User
	err := h.DB.WithContext(r.Context()).
		Preload("Invoices", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc").Limit(5).Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
		}).
		First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Fail(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", services.ErrStorageUnavailable, err), "user not found", "failed to fetch user")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"email":    user.Email,
		"plan":     user.Plan,
		"invoices": user.Invoices,
	})
}

// Create: POST /users. Create-or-return by email (idempotent).
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("email", body.Email, v)
	validation.Email("email", body.Email, v)
	if !v.Empty() {
		httpx.FailDetails(w, http.StatusBadRequest, v.First(), v)
		return
	}
	user, err := h.Svc.Resolve(r.Context(), "", body.Email)
	if err != nil {
		writeError(w, err, "user not found", "failed to create user")
		return
	}
	httpx.OK(w, http.StatusCreated, user)
}

// Get: GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.Svc.Lookup(r.Context(), id, "")
	if err != nil {
		writeError(w, err, "user not found", "failed to fetch user")
		return
	}
	httpx.OK(w, http.StatusOK, user)
}

// Delete: DELETE /users/{id}. Account deletion cascades to the user's
// invoices.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.Svc.Lookup(r.Context(), id, "")
	if err != nil {
		writeError(w, err, "user not found", "failed to delete user")
		return
	}
	err = h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id IN (?)",
			tx.Model(&models.Invoice{}).Select("id").Where("user_id = ?", user.ID),
		).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", services.ErrStorageUnavailable, err), "user not found", "failed to delete user")
		return
	}
	httpx.Message(w, http.StatusOK, "user deleted")
}
