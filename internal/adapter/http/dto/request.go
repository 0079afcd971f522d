package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imelnyk/bankcore/internal/domain"
	"github.com/imelnyk/bankcore/internal/usecase"
)

// OwnerPayload represents an account owner on the wire.
type OwnerPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	ID             string          `json:"id,omitempty"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Owner          *OwnerPayload   `json:"owner"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	input := usecase.CreateAccountInput{
		ID:             r.ID,
		Currency:       r.Currency,
		InitialBalance: r.InitialBalance,
	}

	if r.Owner != nil {
		input.Owner = &domain.Owner{
			ID:        r.Owner.ID,
			FirstName: r.Owner.FirstName,
			LastName:  r.Owner.LastName,
		}
	}

	return input
}

// WithdrawRequest represents a request to withdraw from an account. The
// account ID comes from the URL, not the body.
type WithdrawRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Timestamp int64           `json:"timestamp,omitempty"` // unix ms; defaults to now
}

// ToUseCaseInput converts to use case input for the given account.
func (r *WithdrawRequest) ToUseCaseInput(accountID string) usecase.WithdrawInput {
	ts := r.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	return usecase.WithdrawInput{
		AccountID: accountID,
		Amount:    r.Amount,
		Currency:  r.Currency,
		Timestamp: ts,
	}
}
