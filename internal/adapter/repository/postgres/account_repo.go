package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/imelnyk/bankcore/internal/domain"
	"github.com/imelnyk/bankcore/internal/usecase"
)

const pgErrUniqueViolation = "23505"

var errForeignTx = errors.New("postgres: transaction does not belong to this repository")

// queryer is the subset of pgx querying shared by *pgxpool.Pool and
// pgx.Tx.
type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const (
	createAccountSQL = `INSERT INTO accounts (id, currency, balance, owner_id, owner_first_name, owner_last_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	accountColumns = `id, currency, balance, owner_id, owner_first_name, owner_last_name, created_at, updated_at`

	getAccountSQL          = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	getAccountForUpdateSQL = getAccountSQL + ` FOR UPDATE`
	listAccountsSQL        = `SELECT ` + accountColumns + ` FROM accounts ORDER BY id LIMIT $1 OFFSET $2`
	updateBalanceSQL       = `UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`
)

// AccountRepository implements usecase.AccountRepository on PostgreSQL.
type AccountRepository struct {
	db queryer
}

var _ usecase.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db queryer) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, createAccountSQL,
		account.ID,
		account.Currency,
		decimalToNumeric(account.Balance),
		account.Owner.ID,
		account.Owner.FirstName,
		account.Owner.LastName,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrAccountExists
		}

		return err
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, getAccountSQL, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	ownTx, err := asOwnTx(tx)
	if err != nil {
		return nil, err
	}

	return scanAccount(ownTx.PgxTx().QueryRow(ctx, getAccountForUpdateSQL, id))
}

// UpdateBalance updates the balance of an account inside a transaction.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	ownTx, err := asOwnTx(tx)
	if err != nil {
		return err
	}

	tag, err := ownTx.PgxTx().Exec(ctx, updateBalanceSQL, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination, ordered by ID.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, listAccountsSQL, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func asOwnTx(tx usecase.Transaction) (*Tx, error) {
	pgTx, ok := tx.(*Tx)
	if !ok {
		return nil, errForeignTx
	}

	return pgTx, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		owner     domain.Owner
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.Currency,
		&balance,
		&owner.ID,
		&owner.FirstName,
		&owner.LastName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.Owner = &owner
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
