package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const KindNotification = "notification"

// Item is a pending delivery kept on disk until the broker accepts it.
type Item struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	CustomerID string          `json:"customer_id"`
	Data       json.RawMessage `json:"data"`
	Retries    int             `json:"retries"`
	Timestamp  time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Kind == "" {
		i.Kind = KindNotification
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now().UTC()
	}
}
