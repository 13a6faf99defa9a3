package repository

import (
	"context"

	"github.com/fastygo/progression/domain"
)

// GeocodeCache remembers resolved postcodes between requests.
type GeocodeCache interface {
	Get(ctx context.Context, postcode string) (*domain.Coordinates, error)
	Save(ctx context.Context, postcode string, coords domain.Coordinates) error
}
