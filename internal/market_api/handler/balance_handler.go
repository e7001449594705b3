package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
	settlement "github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

// BalanceHandler handles balance queries and cash movements
type BalanceHandler struct {
	ledgerService settlement.LedgerService
	logger        *slog.Logger
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(logger *slog.Logger, ledgerService settlement.LedgerService) *BalanceHandler {
	return &BalanceHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// GetBalance returns the balance and history of a steam id, opening an empty account on first use
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	steamID := c.Param("steamId")

	statement, err := h.ledgerService.GetBalance(c.Request.Context(), steamID)
	if err != nil {
		respondFailure(c, h.logger, "Failed to get balance", err, "steam_id", steamID)
		return
	}

	RespondOK(c, statement)
}

// Deposit credits the account
func (h *BalanceHandler) Deposit(c *gin.Context) {
	h.moveFunds(c, "Deposit successful", h.ledgerService.Deposit)
}

// Withdraw debits the account and records a pending withdrawal
func (h *BalanceHandler) Withdraw(c *gin.Context) {
	h.moveFunds(c, "Withdrawal requested", h.ledgerService.RequestWithdrawal)
}

func (h *BalanceHandler) moveFunds(
	c *gin.Context,
	message string,
	apply func(ctx context.Context, req *settlement.FundsRequest) (*settlement.FundsResult, error),
) {
	var req FundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLogger(c, h.logger).Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := apply(c.Request.Context(), &settlement.FundsRequest{
		SteamID:       req.SteamID,
		Amount:        req.Amount,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondFailure(c, h.logger, "Failed to move funds", err, "steam_id", req.SteamID)
		return
	}

	RespondOK(c, FundsResponse{
		Message:       message,
		Balance:       result.Account.Balance,
		TransactionID: result.Transaction.ID.String(),
		Status:        string(result.Transaction.Status),
	})
}

// Audit returns one page of the mirrored ledger entries, newest first
func (h *BalanceHandler) Audit(c *gin.Context) {
	steamID := c.Param("steamId")

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	if params.PerPage > settlement.MaxAuditPageSize {
		params.PerPage = settlement.MaxAuditPageSize
	}

	entries, total, err := h.ledgerService.AuditTrail(c.Request.Context(), steamID, params.Page, params.PerPage)
	if err != nil {
		respondFailure(c, h.logger, "Failed to read audit trail", err, "steam_id", steamID)
		return
	}

	RespondWithPage(c, entries, params.Page, params.PerPage, total)
}
