package services

import (
	"context"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/usecase"
)

// Notifier turns stored records into notifications for the buffer processor.
type Notifier struct {
	processor *BufferProcessor
}

func NewNotifier(processor *BufferProcessor) *Notifier {
	return &Notifier{processor: processor}
}

func (n *Notifier) Publish(ctx context.Context, change domain.ChangeKind, progression *domain.EmploymentProgression, baseURL string) error {
	if n.processor == nil {
		return domain.ErrInvalidPayload
	}
	notification, err := domain.NewNotification(change, progression, baseURL)
	if err != nil {
		return err
	}
	return n.processor.Deliver(ctx, notification)
}

var _ usecase.Notifier = (*Notifier)(nil)
