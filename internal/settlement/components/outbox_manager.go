package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/outbox"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Stage writes one outbox message carrying txns in the same transaction that appended them
func (m *OutboxManagerImpl) Stage(ctx context.Context, tx pgx.Tx, eventType shared.OutboxEventType, aggregateID, correlationID string, txns ...*account.Transaction) error {
	logger := m.logger
	if correlationID != "" {
		logger = m.logger.With("correlation_id", correlationID)
	}

	msg, err := outbox.NewMessage(eventType, aggregateID, correlationID, txns...)
	if err != nil {
		logger.Error("Failed to create new outbox message (marshal payload)",
			"aggregate_id", aggregateID,
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message payload for %s: %w", aggregateID, err)
	}

	if err := m.outboxRepo.WithTx(tx).Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to stage outbox message for %s: %w", aggregateID, err)
	}

	logger.Debug("Outbox message staged",
		"aggregate_id", aggregateID,
		"event_type", string(eventType),
		"outbox_id", msg.ID,
		"entries", len(txns),
	)

	return nil
}
