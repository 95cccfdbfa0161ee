package amqp

import (
	"encoding/json"
	"time"
)

// PersonSyncMessage asks the worker to replicate one roster entry to the
// spreadsheet backend. It carries only the ID; the worker fetches the row
// from the database so the message never goes stale.
type PersonSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPersonSyncMessage(id int64) *PersonSyncMessage {
	return &PersonSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *PersonSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PersonSyncMessageFromJSON(data []byte) (*PersonSyncMessage, error) {
	var msg PersonSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
