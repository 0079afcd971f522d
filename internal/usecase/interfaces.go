package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imelnyk/bankcore/internal/domain"
)

// AccountRepository defines data access for accounts. GetByID and
// GetByIDForUpdate return copies: the record handed to the withdrawal
// path is exclusively owned for the duration of one call.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates transaction identifiers.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// MetricsRecorder records business-level metrics. Implementations must
// be safe for concurrent use.
type MetricsRecorder interface {
	AccountCreated()
	AccountBalanceSet(accountID, currency string, balance decimal.Decimal)
	WithdrawalProcessed(currency string, amount decimal.Decimal)
	WithdrawalFailed(code string)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
