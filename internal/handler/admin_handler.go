// handler/admin_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"transfer-service/internal/domain"
	"transfer-service/internal/middleware"
	"transfer-service/internal/response"
	"transfer-service/internal/usecase/transfer"
	"transfer-service/internal/ws"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReviewService is the slice of the transfer usecase the admin handler
// consumes.
type ReviewService interface {
	ReviewTransfer(ctx context.Context, transferID string, adminID int64, action transfer.ReviewAction, reason string) (*domain.Transaction, error)
}

type AdminHandler struct {
	svc    ReviewService
	hub    *ws.Hub
	logger *zap.Logger
}

func NewAdminHandler(svc ReviewService, hub *ws.Hub, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, hub: hub, logger: logger}
}

type reviewRequest struct {
	Action string `json:"action"` // approve | reject
	Reason string `json:"reason,omitempty"`
}

// ReviewTransfer handles POST /admin/transfers/{id}/review.
func (h *AdminHandler) ReviewTransfer(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.ReviewTransfer(r.Context(), chi.URLParam(r, "id"), adminID, transfer.ReviewAction(req.Action), req.Reason)
	if err != nil {
		h.writeReviewError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

func (h *AdminHandler) writeReviewError(w http.ResponseWriter, err error) {
	var ve *transfer.ValidationError
	if rej, ok := domain.AsRejection(err); ok {
		response.Rejection(w, http.StatusConflict, rej)
		return
	}
	switch {
	case errors.As(err, &ve):
		response.Error(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrReasonRequired):
		response.Error(w, http.StatusBadRequest, "reason is required when rejecting a transfer")
	case errors.Is(err, domain.ErrTransactionNotFound):
		response.Error(w, http.StatusNotFound, "transaction not found")
	default:
		h.logger.Error("transfer review failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// ConnectionStats handles GET /admin/ws/stats: a read-only snapshot of
// the live connection registry.
func (h *AdminHandler) ConnectionStats(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.hub.Snapshot())
}
