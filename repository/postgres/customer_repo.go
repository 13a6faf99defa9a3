package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/repository"
)

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates a Postgres-backed customer lookup.
func NewCustomerRepository(pool *pgxpool.Pool) repository.CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
		SELECT id, date_of_termination
		FROM customers
		WHERE id = $1
	`
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, id).Scan(&customer.ID, &customer.DateOfTermination); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := r.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *customerRepository) IsReadOnly(ctx context.Context, id string) (bool, error) {
	customer, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return false, nil
		}
		return false, err
	}
	return customer.IsReadOnly(), nil
}
