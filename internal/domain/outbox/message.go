package outbox

import (
	"encoding/json"
	"time"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/ledger"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Message stages committed ledger changes for the relay
type Message struct {
	ID            int64                  `json:"id"`
	EventType     shared.OutboxEventType `json:"event_type"`
	AggregateID   string                 `json:"aggregate_id"`
	Payload       json.RawMessage        `json:"payload"`
	Status        shared.OutboxStatus    `json:"status"`
	Attempts      int                    `json:"attempts"`
	CreatedAt     time.Time              `json:"created_at"`
	LastAttemptAt *time.Time             `json:"last_attempt_at,omitempty"`
}

// Payload is the body of a message: every transaction appended by one operation
type Payload struct {
	Entries []*ledger.Entry `json:"entries"`
}

// NewMessage packs txns into a pending message keyed by aggregateID
func NewMessage(eventType shared.OutboxEventType, aggregateID, correlationID string, txns ...*account.Transaction) (*Message, error) {
	body := Payload{Entries: make([]*ledger.Entry, 0, len(txns))}
	for _, txn := range txns {
		body.Entries = append(body.Entries, ledger.NewEntry(txn, correlationID))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      shared.OutboxStatusPending,
		Attempts:    0,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetLedgerEntries extracts the ledger entries from the payload
func (m *Message) GetLedgerEntries() ([]*ledger.Entry, error) {
	var body Payload
	if err := json.Unmarshal(m.Payload, &body); err != nil {
		return nil, err
	}
	return body.Entries, nil
}
