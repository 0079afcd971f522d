package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/imelnyk/bankcore/internal/domain"
	"github.com/imelnyk/bankcore/internal/usecase"
	"github.com/imelnyk/bankcore/internal/usecase/mocks"
)

func newProcessor(t *testing.T, txID string) *usecase.WithdrawalUseCase {
	t.Helper()

	ctrl := gomock.NewController(t)
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return(txID).AnyTimes()

	return usecase.NewWithdrawalUseCase(nil, nil, idGen, nil, mocks.NewMockMetricsRecorder(ctrl))
}

func TestWithdrawalUseCase_Process_Success(t *testing.T) {
	uc := newProcessor(t, "txn-fixed")

	account := &domain.Account{
		ID:       "acc1",
		Balance:  decimal.NewFromInt(1000),
		Currency: "USD",
		Owner:    &domain.Owner{ID: "own1"},
	}
	req := &domain.WithdrawalRequest{AccountID: "acc1", Amount: decimal.NewFromInt(200), Currency: "USD", Timestamp: 1000}

	txn, err := uc.Process(account, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &domain.Transaction{
		ID:               "txn-fixed",
		Amount:           decimal.NewFromInt(200),
		Currency:         "USD",
		Timestamp:        1000,
		RemainingBalance: decimal.NewFromInt(800),
	}
	if diff := cmp.Diff(want, txn); diff != "" {
		t.Fatalf("transaction mismatch (-want +got):\n%s", diff)
	}

	if !account.Balance.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected account debited to 800, got %s", account.Balance)
	}
}

func TestWithdrawalUseCase_Process_FailuresLeaveAccountUntouched(t *testing.T) {
	tests := []struct {
		name    string
		req     *domain.WithdrawalRequest
		wantErr *domain.Error
	}{
		{
			name:    "wrong account",
			req:     &domain.WithdrawalRequest{AccountID: "other", Amount: decimal.NewFromInt(10), Currency: "USD"},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "non-positive amount",
			req:     &domain.WithdrawalRequest{AccountID: "acc1", Amount: decimal.NewFromInt(-1), Currency: "USD"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "currency mismatch",
			req:     &domain.WithdrawalRequest{AccountID: "acc1", Amount: decimal.NewFromInt(200), Currency: "EUR"},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name:    "insufficient funds",
			req:     &domain.WithdrawalRequest{AccountID: "acc1", Amount: decimal.NewFromInt(5000), Currency: "USD"},
			wantErr: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newProcessor(t, "txn-unused")

			account := &domain.Account{
				ID:       "acc1",
				Balance:  decimal.NewFromInt(1000),
				Currency: "USD",
				Owner:    &domain.Owner{ID: "own1"},
			}

			txn, err := uc.Process(account, tt.req)
			if txn != nil {
				t.Fatalf("expected no transaction on failure, got %+v", txn)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Process() error = %v, want %v", err, tt.wantErr)
			}

			if !account.Balance.Equal(decimal.NewFromInt(1000)) {
				t.Fatalf("failure must leave balance untouched, got %s", account.Balance)
			}
		})
	}
}

func TestWithdrawalUseCase_Withdraw_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	repo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	stored := &domain.Account{
		ID:       "acc1",
		Balance:  decimal.NewFromInt(1000),
		Currency: "USD",
		Owner:    &domain.Owner{ID: "own1"},
	}

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	repo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "acc1").Return(stored, nil)
	idGen.EXPECT().Generate().Return("txn-1")
	repo.EXPECT().
		UpdateBalance(gomock.Any(), tx, "acc1", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, _ string, balance decimal.Decimal, _ any) error {
			if !balance.Equal(decimal.NewFromInt(800)) {
				t.Fatalf("expected persisted balance 800, got %s", balance)
			}
			return nil
		})
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	// Deferred rollback after a successful commit is a no-op.
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	metrics.EXPECT().AccountBalanceSet("acc1", "USD", gomock.Any())
	metrics.EXPECT().WithdrawalProcessed("USD", gomock.Any())

	uc := usecase.NewWithdrawalUseCase(txManager, repo, idGen, nil, metrics)
	txn, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "acc1",
		Amount:    decimal.NewFromInt(200),
		Currency:  "USD",
		Timestamp: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.ID != "txn-1" || !txn.RemainingBalance.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
}

func TestWithdrawalUseCase_Withdraw_InsufficientFundsRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	repo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	stored := &domain.Account{
		ID:       "acc1",
		Balance:  decimal.NewFromInt(100),
		Currency: "USD",
		Owner:    &domain.Owner{ID: "own1"},
	}

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	repo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "acc1").Return(stored, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	metrics.EXPECT().WithdrawalFailed("INSUFFICIENT_FUNDS")

	uc := usecase.NewWithdrawalUseCase(txManager, repo, idGen, nil, metrics)
	_, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "acc1",
		Amount:    decimal.NewFromInt(5000),
		Currency:  "USD",
	})

	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestWithdrawalUseCase_Withdraw_MissingAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	repo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	repo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "ghost").Return(nil, domain.ErrAccountNotFound)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	metrics.EXPECT().WithdrawalFailed("ACCOUNT_NOT_FOUND")

	uc := usecase.NewWithdrawalUseCase(txManager, repo, idGen, nil, metrics)
	_, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "ghost",
		Amount:    decimal.NewFromInt(10),
		Currency:  "USD",
	})

	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected account not found, got %v", err)
	}
}

func TestWithdrawalUseCase_Withdraw_PersistFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	repo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	stored := &domain.Account{
		ID:       "acc1",
		Balance:  decimal.NewFromInt(1000),
		Currency: "USD",
		Owner:    &domain.Owner{ID: "own1"},
	}
	storeErr := errors.New("connection reset")

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	repo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "acc1").Return(stored, nil)
	idGen.EXPECT().Generate().Return("txn-1")
	repo.EXPECT().UpdateBalance(gomock.Any(), tx, "acc1", gomock.Any(), gomock.Any()).Return(storeErr)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewWithdrawalUseCase(txManager, repo, idGen, nil, metrics)
	_, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "acc1",
		Amount:    decimal.NewFromInt(200),
		Currency:  "USD",
	})

	if !errors.Is(err, storeErr) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}

func TestWithdrawalUseCase_Withdraw_UsesRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	repo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	stored := &domain.Account{
		ID:       "acc1",
		Balance:  decimal.NewFromInt(1000),
		Currency: "USD",
		Owner:    &domain.Owner{ID: "own1"},
	}

	// The retrier drives the operation; here it simply runs it once.
	retrier.EXPECT().
		Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, operation func() error) error {
			return operation()
		})

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	repo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "acc1").Return(stored, nil)
	idGen.EXPECT().Generate().Return("txn-1")
	repo.EXPECT().UpdateBalance(gomock.Any(), tx, "acc1", gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	metrics.EXPECT().AccountBalanceSet("acc1", "USD", gomock.Any())
	metrics.EXPECT().WithdrawalProcessed("USD", gomock.Any())

	uc := usecase.NewWithdrawalUseCase(txManager, repo, idGen, retrier, metrics)
	txn, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "acc1",
		Amount:    decimal.NewFromInt(200),
		Currency:  "USD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn == nil || txn.ID != "txn-1" {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
}
