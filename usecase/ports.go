package usecase

import (
	"context"

	"github.com/fastygo/progression/domain"
)

// Geocoder resolves a postcode to coordinates. Blank input yields nil, nil.
type Geocoder interface {
	Resolve(ctx context.Context, postcode string) (*domain.Coordinates, error)
}

// Notifier announces a created or changed record to downstream subscribers.
type Notifier interface {
	Publish(ctx context.Context, change domain.ChangeKind, progression *domain.EmploymentProgression, baseURL string) error
}
