// Package memory provides an in-memory account store with
// transaction-like semantics. It backs local development and tests; the
// postgres package is the production store.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imelnyk/bankcore/internal/domain"
	"github.com/imelnyk/bankcore/internal/usecase"
)

// AccountRepository stores accounts in process memory. It implements
// both usecase.AccountRepository and usecase.TransactionManager:
// transactions stage balance writes and hold per-account locks until
// commit or rollback, mirroring SELECT ... FOR UPDATE semantics.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	locks    map[string]*sync.Mutex
}

var (
	_ usecase.AccountRepository  = (*AccountRepository)(nil)
	_ usecase.TransactionManager = (*AccountRepository)(nil)
)

// NewAccountRepository creates an empty in-memory account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Create stores a new account. Returns domain.ErrAccountExists when the
// identifier is already taken.
func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; ok {
		return domain.ErrAccountExists
	}

	r.accounts[account.ID] = copyAccount(account)

	return nil
}

// GetByID returns a copy of the stored account.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return copyAccount(account), nil
}

// GetByIDForUpdate acquires the per-account lock for the rest of the
// transaction and returns a copy of the stored account. Concurrent
// withdrawals against the same account serialize on this lock.
func (r *AccountRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	memTx, err := r.ownTx(tx)
	if err != nil {
		return nil, err
	}

	memTx.lock(id)

	r.mu.RLock()
	account, ok := r.accounts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return copyAccount(account), nil
}

// UpdateBalance stages a balance write; it becomes visible on commit.
func (r *AccountRepository) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	memTx, err := r.ownTx(tx)
	if err != nil {
		return err
	}

	r.mu.RLock()
	_, ok := r.accounts[id]
	r.mu.RUnlock()
	if !ok {
		return domain.ErrAccountNotFound
	}

	memTx.staged[id] = stagedWrite{balance: balance, updatedAt: updatedAt}

	return nil
}

// List returns stored accounts ordered by identifier.
func (r *AccountRepository) List(_ context.Context, limit, offset int) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.accounts))
	for id := range r.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset >= len(ids) {
		return []*domain.Account{}, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, copyAccount(r.accounts[id]))
	}

	return accounts, nil
}

// Begin starts a new staging transaction.
func (r *AccountRepository) Begin(_ context.Context) (usecase.Transaction, error) {
	return &Tx{
		repo:   r,
		staged: make(map[string]stagedWrite),
	}, nil
}

func (r *AccountRepository) ownTx(tx usecase.Transaction) (*Tx, error) {
	memTx, ok := tx.(*Tx)
	if !ok || memTx.repo != r {
		return nil, errForeignTx
	}

	return memTx, nil
}

func (r *AccountRepository) accountLock(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[id] = lock
	}

	return lock
}

func copyAccount(account *domain.Account) *domain.Account {
	cp := *account
	if account.Owner != nil {
		owner := *account.Owner
		cp.Owner = &owner
	}

	return &cp
}

type stagedWrite struct {
	balance   decimal.Decimal
	updatedAt time.Time
}

// Tx is an in-memory staging transaction. Writes land in staged and are
// applied atomically on Commit; Rollback discards them. Either way the
// held per-account locks are released exactly once.
type Tx struct {
	repo   *AccountRepository
	staged map[string]stagedWrite
	held   []string
	done   bool
}

func (tx *Tx) lock(id string) {
	for _, held := range tx.held {
		if held == id {
			return
		}
	}

	tx.repo.accountLock(id).Lock()
	tx.held = append(tx.held, id)
}

// Commit applies the staged writes and releases the held locks.
func (tx *Tx) Commit(_ context.Context) error {
	if tx.done {
		return errTxDone
	}
	tx.done = true

	tx.repo.mu.Lock()
	for id, write := range tx.staged {
		if account, ok := tx.repo.accounts[id]; ok {
			account.Balance = write.balance
			account.UpdatedAt = write.updatedAt
		}
	}
	tx.repo.mu.Unlock()

	tx.release()

	return nil
}

// Rollback discards the staged writes and releases the held locks.
// Rolling back a finished transaction is a no-op, so it is safe to
// defer alongside Commit.
func (tx *Tx) Rollback(_ context.Context) error {
	if tx.done {
		return nil
	}
	tx.done = true

	tx.staged = nil
	tx.release()

	return nil
}

func (tx *Tx) release() {
	for _, id := range tx.held {
		tx.repo.accountLock(id).Unlock()
	}
	tx.held = nil
}

var (
	errTxDone    = errors.New("memory: transaction already finished")
	errForeignTx = errors.New("memory: transaction does not belong to this repository")
)
