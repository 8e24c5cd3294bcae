package amqp

import (
	"encoding/json"
	"time"

	"financeflow/internal/ledger"
)

// LedgerEventMessage is the wire form of a ledger change.
type LedgerEventMessage struct {
	Event       ledger.Event `json:"event"`
	PublishedAt time.Time    `json:"publishedAt"`
}

func NewLedgerEventMessage(ev ledger.Event) *LedgerEventMessage {
	return &LedgerEventMessage{Event: ev, PublishedAt: time.Now()}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
