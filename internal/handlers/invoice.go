package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/invoice-umkm/internal/httpx"
	"github.com/diewo77/invoice-umkm/internal/services"
)

type InvoiceHandler struct {
	Svc *services.InvoiceService
}

func NewInvoiceHandler(svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Svc: svc}
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	inv, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, err, "invoice not found", "failed to create invoice")
		return
	}
	httpx.OK(w, http.StatusCreated, inv)
}

// List: GET /invoices?userId=&limit=
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httpx.Fail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	invs, err := h.Svc.List(r.Context(), r.URL.Query().Get("userId"), limit)
	if err != nil {
		writeError(w, err, "invoice not found", "failed to list invoices")
		return
	}
	httpx.OK(w, http.StatusOK, invs)
}

// Get: GET /invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	inv, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "invoice not found", "failed to load invoice")
		return
	}
	httpx.OK(w, http.StatusOK, inv)
}

// Update: PUT /invoices/{id}. Explicit patch; unknown fields are rejected.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var in services.UpdateInput
	if err := dec.Decode(&in); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			httpx.Fail(w, http.StatusBadRequest, "unknown field in request body")
			return
		}
		httpx.Fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	inv, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err, "invoice not found", "failed to update invoice")
		return
	}
	httpx.OK(w, http.StatusOK, inv)
}

// Delete: DELETE /invoices/{id}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err, "invoice not found", "failed to delete invoice")
		return
	}
	httpx.Message(w, http.StatusOK, "invoice deleted")
}
