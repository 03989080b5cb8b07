package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"transfer-service/internal/domain"
	"transfer-service/internal/usecase/transfer"
	"transfer-service/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReviewService struct {
	reviewFn func(string, int64, transfer.ReviewAction, string) (*domain.Transaction, error)
}

func (m *mockReviewService) ReviewTransfer(_ context.Context, id string, adminID int64, action transfer.ReviewAction, reason string) (*domain.Transaction, error) {
	return m.reviewFn(id, adminID, action, reason)
}

func newAdminRouter(svc ReviewService, adminID int64) http.Handler {
	hub := ws.NewHub(zap.NewNop(), 54*time.Second, 60*time.Second)
	h := NewAdminHandler(svc, hub, zap.NewNop())
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(fakeAuth(adminID))
		r.Post("/admin/transfers/{id}/review", h.ReviewTransfer)
		r.Get("/admin/ws/stats", h.ConnectionStats)
	})
	return r
}

func TestReviewTransferApproved(t *testing.T) {
	svc := &mockReviewService{
		reviewFn: func(id string, adminID int64, action transfer.ReviewAction, reason string) (*domain.Transaction, error) {
			assert.Equal(t, "tx-1", id)
			assert.Equal(t, int64(9), adminID)
			assert.Equal(t, transfer.ActionApprove, action)
			return &domain.Transaction{ID: id, UserID: 1, Status: domain.StatusProcessing}, nil
		},
	}
	w := doRequest(t, newAdminRouter(svc, 9), http.MethodPost, "/admin/transfers/tx-1/review",
		map[string]string{"action": "approve"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"PROCESSING"`)
}

func TestReviewTransferAlreadyResolvedConflicts(t *testing.T) {
	svc := &mockReviewService{
		reviewFn: func(string, int64, transfer.ReviewAction, string) (*domain.Transaction, error) {
			return nil, domain.NewRejection(domain.CodeInvalidTransferStatus, "transfer has already been resolved")
		},
	}
	w := doRequest(t, newAdminRouter(svc, 9), http.MethodPost, "/admin/transfers/tx-1/review",
		map[string]string{"action": "approve"})

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.CodeInvalidTransferStatus, resp.Code)
}

func TestReviewTransferMissingReason(t *testing.T) {
	svc := &mockReviewService{
		reviewFn: func(string, int64, transfer.ReviewAction, string) (*domain.Transaction, error) {
			return nil, domain.ErrReasonRequired
		},
	}
	w := doRequest(t, newAdminRouter(svc, 9), http.MethodPost, "/admin/transfers/tx-1/review",
		map[string]string{"action": "reject"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConnectionStats(t *testing.T) {
	w := doRequest(t, newAdminRouter(&mockReviewService{}, 9), http.MethodGet, "/admin/ws/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected_users":0`)
}
