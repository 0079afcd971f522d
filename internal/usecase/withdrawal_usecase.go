package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imelnyk/bankcore/internal/domain"
)

// WithdrawalUseCase handles withdrawal processing. Process is the pure
// in-memory contract; Withdraw runs it against a stored account under a
// storage transaction.
type WithdrawalUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     MetricsRecorder
}

// NewWithdrawalUseCase creates a new WithdrawalUseCase. retrier may be
// nil when the backing store has no transient failure mode.
func NewWithdrawalUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics MetricsRecorder,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// Process validates a withdrawal request against a caller-owned account
// record and, on success, debits the balance in place and returns the
// transaction. On failure the account is left untouched and the typed
// domain error is returned. Synchronous and free of side effects beyond
// the single balance write.
func (uc *WithdrawalUseCase) Process(account *domain.Account, req *domain.WithdrawalRequest) (*domain.Transaction, error) {
	if err := account.ValidateWithdrawal(req); err != nil {
		return nil, err
	}

	return account.ApplyWithdrawal(req, uc.idGen.Generate()), nil
}

// WithdrawInput represents input for a withdrawal against a stored
// account.
type WithdrawInput struct {
	AccountID string
	Amount    decimal.Decimal
	Currency  string
	Timestamp int64
}

// Withdraw debits a stored account: it locks the account row, runs
// Process on the exclusively-owned copy and persists the new balance.
// Every failure path rolls back and leaves the stored balance
// unchanged.
func (uc *WithdrawalUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Transaction, error) {
	req := &domain.WithdrawalRequest{
		AccountID: input.AccountID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Timestamp: input.Timestamp,
	}

	var txn *domain.Transaction

	operation := func() error {
		var err error
		txn, err = uc.withdrawOnce(ctx, req)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			uc.metrics.WithdrawalFailed(string(domainErr.Code))
		}
		return nil, err
	}

	uc.metrics.WithdrawalProcessed(req.Currency, req.Amount)

	return txn, nil
}

func (uc *WithdrawalUseCase) withdrawOnce(ctx context.Context, req *domain.WithdrawalRequest) (*domain.Transaction, error) {
	// 1. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 2. Lock the account row; the returned copy is exclusively owned
	// until commit, so concurrent withdrawals serialize here
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, req.AccountID)
	if err != nil {
		return nil, err
	}

	// 3. Run the pure validation-and-mutation contract on the copy
	txn, err := uc.Process(account, req)
	if err != nil {
		return nil, err
	}

	// 4. Persist the debited balance
	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.Balance, now); err != nil {
		return nil, err
	}

	// 5. Commit
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.metrics.AccountBalanceSet(account.ID, account.Currency, account.Balance)

	return txn, nil
}
