package repository

import (
	"context"

	"github.com/fastygo/progression/domain"
)

// ProgressionFilter selects the records List returns. List never truncates.
type ProgressionFilter struct {
	CustomerID string
}

// ProgressionRepository stores employment progressions as JSON documents.
type ProgressionRepository interface {
	ExistsForCustomer(ctx context.Context, customerID string) (bool, error)
	GetByID(ctx context.Context, customerID, id string) (*domain.EmploymentProgression, error)
	List(ctx context.Context, filter ProgressionFilter) ([]domain.EmploymentProgression, error)
	// GetRaw returns the stored document exactly as persisted.
	GetRaw(ctx context.Context, customerID, id string) ([]byte, error)
	// Create reports false when the document was not written.
	Create(ctx context.Context, progression *domain.EmploymentProgression) (bool, error)
	// Replace overwrites the stored document and reports false when no row matched.
	Replace(ctx context.Context, id string, document []byte) (bool, error)
}
