package shared

// TransactionKind defines the ledger operations an account can record
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "deposit"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
	TransactionKindPurchase   TransactionKind = "purchase"
	TransactionKindSale       TransactionKind = "sale"
)

// Valid reports whether k is a known transaction kind
func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindDeposit, TransactionKindWithdrawal, TransactionKindPurchase, TransactionKindSale:
		return true
	}
	return false
}

// TransactionStatus defines ledger transaction states
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// OutboxEventType names the change an outbox message carries
type OutboxEventType string

const (
	OutboxEventDeposit    OutboxEventType = "ledger.deposit"
	OutboxEventWithdrawal OutboxEventType = "ledger.withdrawal"
	OutboxEventSettlement OutboxEventType = "ledger.settlement"
)
