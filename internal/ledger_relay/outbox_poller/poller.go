package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/outbox"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Poller processes pending outbox messages
type Poller struct {
	outboxRepo       outbox.Repository
	ledgerPublisher  LedgerPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	ledgerPublisher LedgerPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		ledgerPublisher:  ledgerPublisher,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start drains the backlog once, then on every tick, until ctx is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		if err := p.drain(ctx); err != nil {
			p.logger.Error("Outbox drain failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// drain keeps fetching while batches come back full and clean, so a backlog
// does not wait one tick per batch
func (p *Poller) drain(ctx context.Context) error {
	for ctx.Err() == nil {
		mirrored, err := p.processBatch(ctx)
		if err != nil {
			return err
		}
		if mirrored < p.batchSize {
			return nil
		}
	}
	return nil
}

// processBatch mirrors one batch, oldest first, and reports how many messages made it.
// A failing message is retried on later passes until it runs out of attempts.
func (p *Poller) processBatch(ctx context.Context) (int, error) {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	mirrored := 0
	for _, msg := range messages {
		if err := p.ledgerPublisher.PublishToLedger(ctx, msg); err != nil {
			p.recordFailure(ctx, msg, err)
			continue
		}
		mirrored++
	}

	p.logger.Info("Outbox batch processed",
		"fetched", len(messages),
		"mirrored", mirrored,
		"failed", len(messages)-mirrored,
	)
	return mirrored, nil
}

// recordFailure counts the attempt and gives the message up once the budget is spent
func (p *Poller) recordFailure(ctx context.Context, msg *outbox.Message, cause error) {
	logger := p.logger.With("outbox_id", msg.ID, "aggregate_id", msg.AggregateID)
	attempts := msg.Attempts + 1
	logger.Error("Failed to mirror outbox message", "attempt", attempts, "error", cause)

	if err := p.outboxRepo.IncrementAttempts(ctx, msg.ID); err != nil {
		logger.Error("Failed to increment outbox attempts", "error", err)
		return
	}

	if attempts < p.maxRetryAttempts {
		return
	}

	logger.Warn("Outbox message exhausted its retries, marking it failed", "attempts", attempts)
	if err := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); err != nil {
		logger.Error("Failed to mark outbox message failed", "error", err)
	}
}
