package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imelnyk/bankcore/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Owner     *OwnerPayload   `json:"owner,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	resp := &AccountResponse{
		ID:        a.ID,
		Currency:  a.Currency,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	if a.Owner != nil {
		resp.Owner = &OwnerPayload{
			ID:        a.Owner.ID,
			FirstName: a.Owner.FirstName,
			LastName:  a.Owner.LastName,
		}
	}

	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// TransactionResponse represents a completed withdrawal transaction.
type TransactionResponse struct {
	ID               string          `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Timestamp        int64           `json:"timestamp"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// WithdrawalResponse represents the result of a withdrawal.
type WithdrawalResponse struct {
	Success     bool                 `json:"success"`
	Transaction *TransactionResponse `json:"transaction"`
}

// WithdrawalFromDomain converts a domain transaction to a response.
func WithdrawalFromDomain(t *domain.Transaction) *WithdrawalResponse {
	return &WithdrawalResponse{
		Success: true,
		Transaction: &TransactionResponse{
			ID:               t.ID,
			Amount:           t.Amount,
			Currency:         t.Currency,
			Timestamp:        t.Timestamp,
			RemainingBalance: t.RemainingBalance,
		},
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
