// Package postgres provides PostgreSQL implementations of the domain repositories.
// Every repository can be rebound to a pgx.Tx so a settlement touches accounts,
// listings, orders and the outbox inside one database transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
)

const accountColumns = `steam_id, balance, version, created_at, updated_at`

const transactionColumns = `id, seq, steam_id, kind, amount, status, order_id, created_at`

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetOrCreate returns the account for steamID, inserting an empty one on first use
func (r *AccountRepository) GetOrCreate(ctx context.Context, steamID string) (*account.Account, error) {
	query := `
		INSERT INTO accounts (steam_id, balance, version, created_at, updated_at)
		VALUES ($1, 0, 1, NOW(), NOW())
		ON CONFLICT (steam_id) DO UPDATE SET steam_id = EXCLUDED.steam_id
		RETURNING ` + accountColumns

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, steamID))
	if err != nil {
		r.logger.Error("Failed to get or create account", "steam_id", steamID, "error", err)
		return nil, fmt.Errorf("failed to get or create account: %w", err)
	}

	return acc, nil
}

// LockForUpdate obtains a row lock on the account and returns its current state.
// Must be called inside a transaction.
func (r *AccountRepository) LockForUpdate(ctx context.Context, steamID string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE steam_id = $1 FOR UPDATE`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, steamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{SteamID: steamID}
		}
		r.logger.Error("Failed to lock account for update", "steam_id", steamID, "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}

	return acc, nil
}

// UpdateBalance persists acc.Balance and acc.Version if the stored version is expectedVersion.
// Returns ErrConcurrentModification otherwise.
func (r *AccountRepository) UpdateBalance(ctx context.Context, acc *account.Account, expectedVersion int) error {
	query := `
		UPDATE accounts
		SET balance = $1, version = $2, updated_at = $3
		WHERE steam_id = $4 AND version = $5
	`

	result, err := r.querier.Exec(ctx, query, acc.Balance, acc.Version, acc.UpdatedAt, acc.SteamID, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to update account balance", "steam_id", acc.SteamID, "error", err)
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{SteamID: acc.SteamID}
	}

	return nil
}

// AppendTransaction inserts txn and fills in its store-assigned sequence number
func (r *AccountRepository) AppendTransaction(ctx context.Context, txn *account.Transaction) error {
	query := `
		INSERT INTO account_transactions (id, steam_id, kind, amount, status, order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`

	err := r.querier.QueryRow(ctx, query,
		txn.ID,
		txn.SteamID,
		txn.Kind,
		txn.Amount,
		txn.Status,
		txn.OrderID,
		txn.CreatedAt,
	).Scan(&txn.Seq)
	if err != nil {
		r.logger.Error("Failed to append transaction",
			"steam_id", txn.SteamID,
			"kind", string(txn.Kind),
			"error", err,
		)
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// ListTransactions returns the full history of steamID, oldest first
func (r *AccountRepository) ListTransactions(ctx context.Context, steamID string) ([]*account.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM account_transactions WHERE steam_id = $1 ORDER BY seq ASC`

	rows, err := r.querier.Query(ctx, query, steamID)
	if err != nil {
		r.logger.Error("Failed to list transactions", "steam_id", steamID, "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]*account.Transaction, 0)
	for rows.Next() {
		var txn account.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.Seq,
			&txn.SteamID,
			&txn.Kind,
			&txn.Amount,
			&txn.Status,
			&txn.OrderID,
			&txn.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return txns, nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.SteamID,
		&acc.Balance,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
