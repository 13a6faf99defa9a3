package repository

import (
	"context"

	"github.com/fastygo/progression/domain"
)

// NotificationSink delivers notifications to subscribers.
type NotificationSink interface {
	Append(ctx context.Context, notification *domain.Notification) error
}
