package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/itinerary-planner/internal/domain"
	"github.com/Rrens/itinerary-planner/internal/offers"
)

// OfferProvider fetches raw flight-offers documents
type OfferProvider interface {
	SearchFlightOffers(ctx context.Context, req domain.SearchRequest) ([]byte, error)
}

// SearchCache stores normalized search results
type SearchCache interface {
	Get(ctx context.Context, req domain.SearchRequest) ([][]domain.FlightOption, bool, error)
	Set(ctx context.Context, req domain.SearchRequest, offers [][]domain.FlightOption) error
}

// SearchService runs flight searches. The cache is optional.
type SearchService struct {
	provider OfferProvider
	cache    SearchCache
}

// NewSearchService creates a new search service. Pass a nil cache to
// disable caching.
func NewSearchService(provider OfferProvider, cache SearchCache) *SearchService {
	return &SearchService{provider: provider, cache: cache}
}

// Search returns normalized offer groups for req. A provider failure or an
// unreadable document is an upstream error; no offers is an empty result.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) ([][]domain.FlightOption, error) {
	req = req.WithDefaults()

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, req)
		if err != nil {
			log.Warn().Err(err).Msg("Search cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	raw, err := s.provider.SearchFlightOffers(ctx, req)
	if err != nil {
		return nil, domain.Upstream("flight search failed", err)
	}

	result, err := offers.Normalize(raw)
	if err != nil {
		return nil, domain.Upstream("flight search returned a malformed response", err)
	}

	if result.Skipped > 0 {
		log.Debug().
			Int("skipped", result.Skipped).
			Str("origin", req.OriginLocationCode).
			Str("destination", req.DestinationLocationCode).
			Msg("Skipped itineraries without segments")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, req, result.Offers); err != nil {
			log.Warn().Err(err).Msg("Search cache write failed")
		}
	}

	return result.Offers, nil
}
