package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

// AccountManagerImpl implements the AccountManager interface
type AccountManagerImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewAccountManager creates a new AccountManagerImpl
func NewAccountManager(accountRepo account.Repository, logger *slog.Logger) service.AccountManager {
	return &AccountManagerImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// LockPair locks the two accounts in lexical steam id order so concurrent
// settlements between the same pair cannot deadlock
func (m *AccountManagerImpl) LockPair(ctx context.Context, tx pgx.Tx, buyerID, sellerID string) (*account.Account, *account.Account, error) {
	repoTx := m.accountRepo.WithTx(tx)

	first, second := buyerID, sellerID
	if second < first {
		first, second = second, first
	}

	firstAcc, err := repoTx.LockForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	secondAcc, err := repoTx.LockForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}

	m.logger.Debug("Accounts locked", "first", first, "second", second)

	if firstAcc.SteamID == buyerID {
		return firstAcc, secondAcc, nil
	}
	return secondAcc, firstAcc, nil
}

// Transfer debits buyer and credits seller by amount, persists both and
// appends the purchase and sale entries linked to orderID
func (m *AccountManagerImpl) Transfer(ctx context.Context, tx pgx.Tx, buyer, seller *account.Account, amount int64, orderID uuid.UUID) ([]*account.Transaction, error) {
	repoTx := m.accountRepo.WithTx(tx)

	buyerVersion, sellerVersion := buyer.Version, seller.Version

	if err := buyer.Debit(amount); err != nil {
		m.logger.Warn("Buyer cannot cover price", "buyer_id", buyer.SteamID, "balance", buyer.Balance, "price", amount)
		return nil, err
	}
	if err := seller.Credit(amount); err != nil {
		return nil, err
	}

	if err := repoTx.UpdateBalance(ctx, buyer, buyerVersion); err != nil {
		return nil, err
	}
	if err := repoTx.UpdateBalance(ctx, seller, sellerVersion); err != nil {
		return nil, err
	}

	purchase, err := account.NewTransaction(buyer.SteamID, shared.TransactionKindPurchase, amount, shared.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}
	sale, err := account.NewTransaction(seller.SteamID, shared.TransactionKindSale, amount, shared.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}

	txns := []*account.Transaction{purchase.ForOrder(orderID), sale.ForOrder(orderID)}
	for _, txn := range txns {
		if err := repoTx.AppendTransaction(ctx, txn); err != nil {
			return nil, err
		}
	}

	m.logger.Info("Funds transferred",
		"order_id", orderID.String(),
		"buyer_id", buyer.SteamID,
		"seller_id", seller.SteamID,
		"amount", amount,
	)

	return txns, nil
}

// Deposit credits steamID, creating the account on first use
func (m *AccountManagerImpl) Deposit(ctx context.Context, tx pgx.Tx, steamID string, amount int64) (*account.Account, *account.Transaction, error) {
	repoTx := m.accountRepo.WithTx(tx)

	// The upsert takes the row lock for the rest of the transaction
	acc, err := repoTx.GetOrCreate(ctx, steamID)
	if err != nil {
		return nil, nil, err
	}

	expectedVersion := acc.Version
	if err := acc.Credit(amount); err != nil {
		return nil, nil, err
	}

	return m.persist(ctx, repoTx, acc, expectedVersion, shared.TransactionKindDeposit, amount, shared.TransactionStatusCompleted)
}

// Withdraw debits steamID immediately and records a pending withdrawal.
// A missing account has nothing to withdraw.
func (m *AccountManagerImpl) Withdraw(ctx context.Context, tx pgx.Tx, steamID string, amount int64) (*account.Account, *account.Transaction, error) {
	repoTx := m.accountRepo.WithTx(tx)

	acc, err := repoTx.LockForUpdate(ctx, steamID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{SteamID: steamID}) {
			return nil, nil, account.ErrInsufficientFunds{SteamID: steamID, Balance: 0, Requested: amount}
		}
		return nil, nil, err
	}

	expectedVersion := acc.Version
	if err := acc.Debit(amount); err != nil {
		m.logger.Warn("Withdrawal exceeds balance", "steam_id", steamID, "balance", acc.Balance, "amount", amount)
		return nil, nil, err
	}

	return m.persist(ctx, repoTx, acc, expectedVersion, shared.TransactionKindWithdrawal, amount, shared.TransactionStatusPending)
}

func (m *AccountManagerImpl) persist(
	ctx context.Context,
	repoTx account.Repository,
	acc *account.Account,
	expectedVersion int,
	kind shared.TransactionKind,
	amount int64,
	status shared.TransactionStatus,
) (*account.Account, *account.Transaction, error) {
	if err := repoTx.UpdateBalance(ctx, acc, expectedVersion); err != nil {
		return nil, nil, err
	}

	txn, err := account.NewTransaction(acc.SteamID, kind, amount, status)
	if err != nil {
		return nil, nil, err
	}
	if err := repoTx.AppendTransaction(ctx, txn); err != nil {
		return nil, nil, fmt.Errorf("failed to record %s: %w", kind, err)
	}

	return acc, txn, nil
}
