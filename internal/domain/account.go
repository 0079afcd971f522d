package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Owner identifies the person an account belongs to. Presence of the
// record is required at creation; its inner fields are not validated.
type Owner struct {
	ID        string
	FirstName string
	LastName  string
}

// Account represents a single-currency bank account. The record is owned
// exclusively by its caller; ApplyWithdrawal mutates Balance in place.
type Account struct {
	ID        string
	Balance   decimal.Decimal
	Currency  string
	Owner     *Owner
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the required account fields: ID, Currency and Owner.
// It returns the account unchanged on success and performs no
// normalization.
func (a *Account) Validate() error {
	if a.ID == "" || a.Currency == "" || a.Owner == nil {
		return ErrMissingFields
	}
	return nil
}

// WithdrawalRequest is a caller-supplied intent to debit an account.
// Timestamp is echoed into the resulting transaction uninterpreted.
type WithdrawalRequest struct {
	AccountID string
	Amount    decimal.Decimal
	Currency  string
	Timestamp int64
}

// Transaction describes a completed withdrawal. It is returned to the
// caller and never persisted.
type Transaction struct {
	ID               string
	Amount           decimal.Decimal
	Currency         string
	Timestamp        int64
	RemainingBalance decimal.Decimal
}

// ValidateWithdrawal runs the ordered check chain against a request:
// account identity, positive amount, currency equality, sufficient
// funds. Only the first failing check's error is reported. A request
// for the exact balance passes.
func (a *Account) ValidateWithdrawal(req *WithdrawalRequest) error {
	if req.AccountID != a.ID {
		return ErrAccountNotFound
	}
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if req.Currency != a.Currency {
		return ErrCurrencyMismatch
	}
	if req.Amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyWithdrawal debits the balance in place and returns the
// transaction record echoing the request's amount, currency and
// timestamp verbatim. Callers must run ValidateWithdrawal first; this
// is the only state change in the account's lifecycle.
func (a *Account) ApplyWithdrawal(req *WithdrawalRequest, txID string) *Transaction {
	remaining := a.Balance.Sub(req.Amount)
	a.Balance = remaining

	return &Transaction{
		ID:               txID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Timestamp:        req.Timestamp,
		RemainingBalance: remaining,
	}
}
