// Package outbox_poller copies committed account transactions from the
// Postgres outbox into the Mongo ledger mirror.
package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/ledger"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/outbox"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// LedgerPublisher publishes outbox messages to ledger
type LedgerPublisher interface {
	PublishToLedger(ctx context.Context, message *outbox.Message) error
}

// LedgerPublisherImpl implements LedgerPublisher
type LedgerPublisherImpl struct {
	outboxRepo outbox.Repository
	ledgerRepo ledger.Repository
	logger     *slog.Logger
}

// NewLedgerPublisher creates a new publisher
func NewLedgerPublisher(
	outboxRepo outbox.Repository,
	ledgerRepo ledger.Repository,
	logger *slog.Logger,
) LedgerPublisher {
	return &LedgerPublisherImpl{
		outboxRepo: outboxRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// PublishToLedger mirrors every entry of the message and marks it processed.
// Entries are upserted by transaction id, so a retried message writes nothing twice.
func (p *LedgerPublisherImpl) PublishToLedger(ctx context.Context, message *outbox.Message) error {
	entries, err := message.GetLedgerEntries()
	if err != nil {
		p.logger.Error("Failed to unmarshal ledger entries from outbox payload",
			"outbox_id", message.ID, "aggregate_id", message.AggregateID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to mark undecodable outbox message as FAILED_TO_PUBLISH",
				"outbox_id", message.ID, "update_error", updateErr,
			)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger.With("outbox_id", message.ID, "event_type", string(message.EventType))
	if len(entries) > 0 && entries[0].CorrelationID != "" {
		logger = logger.With("correlation_id", entries[0].CorrelationID)
	}

	for _, entry := range entries {
		if err := p.ledgerRepo.Upsert(ctx, entry); err != nil {
			logger.Error("Failed to mirror ledger entry", "transaction_id", entry.TransactionID, "error", err)
			return fmt.Errorf("failed to mirror ledger entry %s: %w", entry.TransactionID, err)
		}
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED", "error", err)
		return fmt.Errorf("ledger write for outbox %d OK, but failed to mark it as PROCESSED: %w", message.ID, err)
	}

	logger.Info("Outbox message mirrored to ledger", "entries", len(entries))
	return nil
}
