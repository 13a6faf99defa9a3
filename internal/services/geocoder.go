package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/internal/infrastructure/geocode"
	"github.com/fastygo/progression/repository"
	"github.com/fastygo/progression/usecase"
)

// CachedGeocoder consults the cache before the upstream lookup and stores
// every successful answer.
type CachedGeocoder struct {
	next   usecase.Geocoder
	cache  repository.GeocodeCache
	logger *zap.Logger
}

func NewCachedGeocoder(next usecase.Geocoder, cache repository.GeocodeCache, logger *zap.Logger) *CachedGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGeocoder{next: next, cache: cache, logger: logger}
}

func (g *CachedGeocoder) Resolve(ctx context.Context, postcode string) (*domain.Coordinates, error) {
	key := geocode.Normalize(postcode)
	if key == "" {
		return nil, nil
	}

	if g.cache != nil {
		coords, err := g.cache.Get(ctx, key)
		switch {
		case err == nil:
			return coords, nil
		case !errors.Is(err, domain.ErrGeocodeCacheMiss):
			g.logger.Warn("geocode cache read failed", zap.String("postcode", key), zap.Error(err))
		}
	}

	coords, err := g.next.Resolve(ctx, key)
	if err != nil || coords == nil {
		return coords, err
	}

	if g.cache != nil {
		if err := g.cache.Save(ctx, key, *coords); err != nil {
			g.logger.Warn("geocode cache write failed", zap.String("postcode", key), zap.Error(err))
		}
	}
	return coords, nil
}

var _ usecase.Geocoder = (*CachedGeocoder)(nil)
