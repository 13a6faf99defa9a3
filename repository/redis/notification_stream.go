package redis

import (
	"context"
	"encoding/json"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/repository"
)

type notificationStream struct {
	client *redislib.Client
	stream string
	maxLen int64
}

// NewNotificationStream appends notifications to a capped Redis stream.
func NewNotificationStream(client *redislib.Client, stream string, maxLen int64) repository.NotificationSink {
	if stream == "" {
		stream = "employment-progressions"
	}
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &notificationStream{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (s *notificationStream) Append(ctx context.Context, n *domain.Notification) error {
	if n == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redislib.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"change":      string(n.Change),
			"customer_id": n.CustomerID,
			"payload":     payload,
		},
	}).Err()
}
