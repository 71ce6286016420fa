package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/diewo77/invoice-umkm/internal/httpx"
	"github.com/diewo77/invoice-umkm/internal/plan"
	"github.com/diewo77/invoice-umkm/internal/services"
)

// writeError maps service errors onto the envelope. notFoundMsg and
// storageMsg keep the user-facing wording per endpoint; nothing is ever
// swallowed into a success response.
func writeError(w http.ResponseWriter, err error, notFoundMsg, storageMsg string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.FailDetails(w, http.StatusBadRequest, verr.Message, verr.Violations)
	case errors.Is(err, services.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, services.ErrLimitReached):
		httpx.Fail(w, http.StatusForbidden, "invoice limit reached, upgrade to PRO for unlimited invoices")
	case errors.Is(err, plan.ErrInvalidPlan):
		// defensive; boundary validation keeps plan values inside the enum
		logrus.WithError(err).Error("invalid plan value in storage")
		httpx.Fail(w, http.StatusInternalServerError, "invalid plan configuration")
	default:
		logrus.WithError(err).Error(storageMsg)
		httpx.Fail(w, http.StatusInternalServerError, storageMsg)
	}
}
