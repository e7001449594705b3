package service

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/ledger"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
)

// Audit trail page sizes
const (
	DefaultAuditPageSize = 20
	MaxAuditPageSize     = 100
)

type LedgerServiceImpl struct {
	db          persistence.TxExecutor
	validator   RequestValidator
	accountRepo account.Repository
	ledgerRepo  ledger.Repository
	accounts    AccountManager
	outbox      OutboxManager
	logger      *slog.Logger
}

func NewLedgerService(
	db persistence.TxExecutor,
	validator RequestValidator,
	accountRepo account.Repository,
	ledgerRepo ledger.Repository,
	accounts AccountManager,
	outbox OutboxManager,
	logger *slog.Logger,
) LedgerService {
	return &LedgerServiceImpl{
		db:          db,
		validator:   validator,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		accounts:    accounts,
		outbox:      outbox,
		logger:      logger,
	}
}

// GetBalance returns the account and its history, creating an empty account on first use
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, steamID string) (*account.Statement, error) {
	if steamID == "" {
		return nil, shared.NewInvalidRequest("steam id is required")
	}

	acc, err := s.accountRepo.GetOrCreate(ctx, steamID)
	if err != nil {
		return nil, err
	}

	txns, err := s.accountRepo.ListTransactions(ctx, steamID)
	if err != nil {
		return nil, err
	}

	return &account.Statement{Account: acc, Transactions: txns}, nil
}

// Deposit credits the account and appends a completed deposit
func (s *LedgerServiceImpl) Deposit(ctx context.Context, req *FundsRequest) (*FundsResult, error) {
	return s.applyFunds(ctx, req, shared.OutboxEventDeposit, s.accounts.Deposit)
}

// RequestWithdrawal debits the account now and appends a pending withdrawal awaiting approval
func (s *LedgerServiceImpl) RequestWithdrawal(ctx context.Context, req *FundsRequest) (*FundsResult, error) {
	return s.applyFunds(ctx, req, shared.OutboxEventWithdrawal, s.accounts.Withdraw)
}

type fundsMutation func(ctx context.Context, tx pgx.Tx, steamID string, amount int64) (*account.Account, *account.Transaction, error)

func (s *LedgerServiceImpl) applyFunds(ctx context.Context, req *FundsRequest, eventType shared.OutboxEventType, mutate fundsMutation) (*FundsResult, error) {
	logger := s.logger
	if req.CorrelationID != "" {
		logger = s.logger.With("correlation_id", req.CorrelationID)
	}

	if err := s.validator.ValidateFunds(req); err != nil {
		return nil, err
	}

	var result FundsResult
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		acc, txn, err := mutate(ctx, tx, req.SteamID, req.Amount)
		if err != nil {
			return err
		}
		result = FundsResult{Account: acc, Transaction: txn}

		return s.outbox.Stage(ctx, tx, eventType, req.SteamID, req.CorrelationID, txn)
	})
	if err != nil {
		logger.Warn("Balance change aborted", "steam_id", req.SteamID, "event_type", string(eventType), "error", err)
		return nil, err
	}

	logger.Info("Balance changed",
		"steam_id", req.SteamID,
		"event_type", string(eventType),
		"amount", req.Amount,
		"balance", result.Account.Balance,
	)

	return &result, nil
}

// AuditTrail pages through the mirrored ledger of steamID, newest first
func (s *LedgerServiceImpl) AuditTrail(ctx context.Context, steamID string, page, perPage int) ([]*ledger.Entry, int64, error) {
	if steamID == "" {
		return nil, 0, shared.NewInvalidRequest("steam id is required")
	}
	if page < 1 {
		page = 1
	}
	switch {
	case perPage < 1:
		perPage = DefaultAuditPageSize
	case perPage > MaxAuditPageSize:
		perPage = MaxAuditPageSize
	}

	offset := (page - 1) * perPage
	entries, err := s.ledgerRepo.GetBySteamID(ctx, steamID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountBySteamID(ctx, steamID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
