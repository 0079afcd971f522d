package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imelnyk/bankcore/internal/adapter/http/dto"
	"github.com/imelnyk/bankcore/internal/domain"
	"github.com/imelnyk/bankcore/internal/usecase"
)

// WithdrawalService defines the behavior needed by WithdrawalHandler.
type WithdrawalService interface {
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Transaction, error)
}

// WithdrawalHandler handles withdrawal HTTP requests.
type WithdrawalHandler struct {
	withdrawalUC WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalUC WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalUC: withdrawalUC}
}

// Create processes a withdrawal against an account.
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing account ID")
		return
	}

	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	txn, err := h.withdrawalUC.Withdraw(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(txn))
}
