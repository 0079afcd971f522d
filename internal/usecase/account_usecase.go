package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imelnyk/bankcore/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	metrics     MetricsRecorder
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, metrics MetricsRecorder) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating an account. A zero
// ID asks the use case to generate one; Owner may be nil, in which case
// validation rejects the record.
type CreateAccountInput struct {
	ID             string
	Currency       string
	InitialBalance decimal.Decimal
	Owner          *domain.Owner
}

// CreateAccount builds the record, validates its required fields and
// stores it.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:        id,
		Balance:   input.InitialBalance,
		Currency:  input.Currency,
		Owner:     input.Owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.metrics.AccountCreated()
	uc.metrics.AccountBalanceSet(account.ID, account.Currency, account.Balance)

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}
	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}
