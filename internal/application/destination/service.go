package destination

import (
	"context"
	"fmt"

	"github.com/travel-atlas/internal/domain"
)

type destinationStore interface {
	Find(ctx context.Context, country string, region *string) (*domain.Destination, error)
}

type Service interface {
	// Lookup returns the destination for country and region. A nil or empty
	// region selects the country-level entry.
	Lookup(ctx context.Context, country string, region *string) (*domain.Destination, error)
}

type service struct {
	repo destinationStore
}

func NewService(repo destinationStore) Service {
	return &service{repo: repo}
}

func (s *service) Lookup(ctx context.Context, country string, region *string) (*domain.Destination, error) {
	if country == "" {
		return nil, fmt.Errorf("country required: %w", domain.ErrBadRequest)
	}
	if region != nil && *region == "" {
		region = nil
	}
	d, err := s.repo.Find(ctx, country, region)
	if err != nil {
		return nil, err
	}
	d.FoodItems = domain.UniqueByName(d.FoodItems)
	d.TouristAttractions = domain.UniqueByName(d.TouristAttractions)
	return d, nil
}
