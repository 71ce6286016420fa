package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/invoice-umkm/internal/httpx"
	"github.com/diewo77/invoice-umkm/internal/render"
	"github.com/diewo77/invoice-umkm/internal/services"
)

type PDFHandler struct {
	Svc *services.InvoiceService
}

func NewPDFHandler(svc *services.InvoiceService) *PDFHandler {
	return &PDFHandler{Svc: svc}
}

// Generate: POST /pdf/generate. Returns the self-contained HTML document
// the client prints to PDF, alongside the invoice data.
func (h *PDFHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		InvoiceID string `json:"invoiceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.InvoiceID == "" {
		httpx.Fail(w, http.StatusBadRequest, "invoiceId is required")
		return
	}
	inv, err := h.Svc.Get(r.Context(), body.InvoiceID)
	if err != nil {
		writeError(w, err, "invoice not found", "failed to generate PDF")
		return
	}
	html, err := render.InvoiceHTML(inv)
	if err != nil {
		writeError(w, err, "invoice not found", "failed to generate PDF")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"html":    html,
		"invoice": inv,
	})
}
