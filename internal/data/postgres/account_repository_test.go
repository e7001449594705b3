package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var accountRowColumns = []string{"steam_id", "balance", "version", "created_at", "updated_at"}

func TestAccountRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	now := time.Now()
	query := regexp.QuoteMeta("INSERT INTO accounts (steam_id, balance, version, created_at, updated_at)") +
		".*" + regexp.QuoteMeta("ON CONFLICT (steam_id) DO UPDATE")

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("76561198000000001").
			WillReturnRows(pgxmock.NewRows(accountRowColumns).AddRow("76561198000000001", int64(0), 1, now, now))

		acc, err := repo.GetOrCreate(ctx, "76561198000000001")
		require.NoError(t, err)
		assert.Equal(t, "76561198000000001", acc.SteamID)
		assert.Zero(t, acc.Balance)
		assert.Equal(t, 1, acc.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(query).WithArgs("76561198000000001").WillReturnError(dbErr)

		acc, err := repo.GetOrCreate(ctx, "76561198000000001")
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to get or create account")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	now := time.Now()
	query := regexp.QuoteMeta("FROM accounts WHERE steam_id = $1 FOR UPDATE")

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("seller").
			WillReturnRows(pgxmock.NewRows(accountRowColumns).AddRow("seller", int64(100), 2, now, now))

		acc, err := repo.LockForUpdate(ctx, "seller")
		require.NoError(t, err)
		assert.Equal(t, int64(100), acc.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

		_, err := repo.LockForUpdate(ctx, "ghost")
		var notFound account.ErrAccountNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "ghost", notFound.SteamID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("lock timeout")
		mock.ExpectQuery(query).WithArgs("seller").WillReturnError(dbErr)

		_, err := repo.LockForUpdate(ctx, "seller")
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to lock account for update")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	acc := &account.Account{SteamID: "buyer", Balance: 60, Version: 3, UpdatedAt: time.Now()}
	query := regexp.QuoteMeta("UPDATE accounts SET balance = $1, version = $2, updated_at = $3 WHERE steam_id = $4 AND version = $5")

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Balance, acc.Version, acc.UpdatedAt, acc.SteamID, 2).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateBalance(ctx, acc, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("version moved on", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Balance, acc.Version, acc.UpdatedAt, acc.SteamID, 2).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateBalance(ctx, acc, 2)
		assert.ErrorIs(t, err, shared.ErrConflict)
		assert.ErrorIs(t, err, account.ErrConcurrentModification{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("check constraint violated")
		mock.ExpectExec(query).
			WithArgs(acc.Balance, acc.Version, acc.UpdatedAt, acc.SteamID, 2).
			WillReturnError(dbErr)

		err := repo.UpdateBalance(ctx, acc, 2)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_AppendTransaction(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	txn, err := account.NewTransaction("buyer", shared.TransactionKindPurchase, 40, shared.TransactionStatusCompleted)
	require.NoError(t, err)
	txn.ForOrder(uuid.New())

	query := regexp.QuoteMeta("INSERT INTO account_transactions") + ".*" + regexp.QuoteMeta("RETURNING seq")

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(txn.ID, txn.SteamID, txn.Kind, txn.Amount, txn.Status, txn.OrderID, txn.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(42)))

		require.NoError(t, repo.AppendTransaction(ctx, txn))
		assert.Equal(t, int64(42), txn.Seq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("fk violation")
		mock.ExpectQuery(query).
			WithArgs(txn.ID, txn.SteamID, txn.Kind, txn.Amount, txn.Status, txn.OrderID, txn.CreatedAt).
			WillReturnError(dbErr)

		err := repo.AppendTransaction(ctx, txn)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to append transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_ListTransactions(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	now := time.Now()
	orderID := uuid.New()
	columns := []string{"id", "seq", "steam_id", "kind", "amount", "status", "order_id", "created_at"}
	query := regexp.QuoteMeta("FROM account_transactions WHERE steam_id = $1 ORDER BY seq ASC")

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(columns).
			AddRow(uuid.New(), int64(1), "buyer", shared.TransactionKindDeposit, int64(100), shared.TransactionStatusCompleted, (*uuid.UUID)(nil), now).
			AddRow(uuid.New(), int64(5), "buyer", shared.TransactionKindPurchase, int64(40), shared.TransactionStatusCompleted, &orderID, now)
		mock.ExpectQuery(query).WithArgs("buyer").WillReturnRows(rows)

		txns, err := repo.ListTransactions(ctx, "buyer")
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, shared.TransactionKindDeposit, txns[0].Kind)
		assert.Nil(t, txns[0].OrderID)
		assert.Equal(t, int64(5), txns[1].Seq)
		require.NotNil(t, txns[1].OrderID)
		assert.Equal(t, orderID, *txns[1].OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty history", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("fresh").WillReturnRows(pgxmock.NewRows(columns))

		txns, err := repo.ListTransactions(ctx, "fresh")
		require.NoError(t, err)
		assert.NotNil(t, txns)
		assert.Empty(t, txns)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		dbErr := errors.New("timeout")
		mock.ExpectQuery(query).WithArgs("buyer").WillReturnError(dbErr)

		_, err := repo.ListTransactions(ctx, "buyer")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
