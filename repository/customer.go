package repository

import (
	"context"

	"github.com/fastygo/progression/domain"
)

// CustomerRepository answers questions about customers owned by another service.
// IsReadOnly reports false for an unknown customer.
type CustomerRepository interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Exists(ctx context.Context, id string) (bool, error)
	IsReadOnly(ctx context.Context, id string) (bool, error)
}
