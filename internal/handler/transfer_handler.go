// handler/transfer_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"transfer-service/internal/domain"
	"transfer-service/internal/middleware"
	"transfer-service/internal/response"
	"transfer-service/internal/usecase/transfer"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TransferService is the slice of the transfer usecase this handler
// consumes.
type TransferService interface {
	CreateTransfer(ctx context.Context, userID int64, req domain.TransferRequest, rc transfer.RequestContext) (*transfer.Result, error)
	ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, userID int64, id string) (*domain.Transaction, error)
}

type TransferHandler struct {
	svc    TransferService
	logger *zap.Logger
}

func NewTransferHandler(svc TransferService, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{svc: svc, logger: logger}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	return r.RemoteAddr
}

// CreateTransfer handles POST /user/transfers.
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.CreateTransfer(r.Context(), userID, req, transfer.RequestContext{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.writeTransferError(w, err)
		return
	}

	if result.Rejection != nil {
		status := http.StatusUnprocessableEntity
		if result.Rejection.Code == domain.CodeHighRiskBlocked {
			status = http.StatusForbidden
		}
		response.Rejection(w, status, result.Rejection)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"outcome":         result.Outcome,
		"transaction":     result.Transaction,
		"risk_assessment": result.Assessment,
	})
}

func (h *TransferHandler) writeTransferError(w http.ResponseWriter, err error) {
	var ve *transfer.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrUserInactive):
		response.Error(w, http.StatusForbidden, "account is not active")
	case errors.Is(err, domain.ErrUserNotFound):
		response.Error(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrTransactionNotFound):
		response.Error(w, http.StatusNotFound, "transaction not found")
	default:
		h.logger.Error("transfer request failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// ListTransfers handles GET /user/transfers, the poll-based fallback
// for clients without a live connection.
func (h *TransferHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.svc.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeTransferError(w, err)
		return
	}
	if list == nil {
		list = []domain.Transaction{}
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"transactions": list})
}

// GetTransfer handles GET /user/transfers/{id}.
func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeTransferError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}
