package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SyncRequestMessage asks the worker to refresh the exported ledger summary.
// It carries no ledger data; the worker reads the store itself.
type SyncRequestMessage struct {
	RequestID   string    `json:"request_id"`
	RequestedBy string    `json:"requested_by"`
	Role        string    `json:"role"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewSyncRequestMessage creates a message with a fresh request ID.
func NewSyncRequestMessage(requestedBy, role string) *SyncRequestMessage {
	return &SyncRequestMessage{
		RequestID:   uuid.NewString(),
		RequestedBy: requestedBy,
		Role:        role,
		Timestamp:   time.Now().UTC(),
	}
}

func (m *SyncRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncRequestMessageFromJSON decodes a message and rejects one without an ID.
func SyncRequestMessageFromJSON(data []byte) (*SyncRequestMessage, error) {
	var msg SyncRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.RequestID == "" {
		return nil, errors.New("sync request without request_id")
	}
	return &msg, nil
}
