package components

import (
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/ledger"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/outbox"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/messaging/producers"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

// Dependencies are the stores and collaborators the settlement services need
type Dependencies struct {
	DB          persistence.TxExecutor
	AccountRepo account.Repository
	ListingRepo listing.Repository
	OrderRepo   order.Repository
	OutboxRepo  outbox.Repository
	LedgerRepo  ledger.Repository
	FailureRepo handoff.FailureRepository
	Pool        TaskSubmitter
	Publisher   producers.OrderEventPublisher
	Gateway     service.HandoffGateway
}

// Services groups the services built by CreateServices
type Services struct {
	Settlement service.SettlementService
	Ledger     service.LedgerService
	Lifecycle  service.LifecycleService
}

// CreateServices wires the components into the settlement, ledger and lifecycle services
func CreateServices(deps Dependencies, logger *slog.Logger) *Services {
	validator := NewRequestValidator(logger)
	accountManager := NewAccountManager(deps.AccountRepo, logger.With("component", "account_manager"))
	listingManager := NewListingManager(deps.ListingRepo, logger.With("component", "listing_manager"))
	orderRecorder := NewOrderRecorder(deps.OrderRepo, logger)
	outboxManager := NewOutboxManager(deps.OutboxRepo, logger)
	notifier := NewEventNotifier(deps.Pool, deps.Publisher, logger.With("component", "event_notifier"))
	failureRecorder := NewFailureRecorder(deps.FailureRepo, logger)

	return &Services{
		Settlement: service.NewSettlementService(
			deps.DB,
			validator,
			accountManager,
			listingManager,
			orderRecorder,
			outboxManager,
			notifier,
			logger.With("component", "settlement"),
		),
		Ledger: service.NewLedgerService(
			deps.DB,
			validator,
			deps.AccountRepo,
			deps.LedgerRepo,
			accountManager,
			outboxManager,
			logger.With("component", "ledger"),
		),
		Lifecycle: service.NewLifecycleService(
			deps.OrderRepo,
			deps.Gateway,
			failureRecorder,
			notifier,
			logger.With("component", "order_lifecycle"),
		),
	}
}
