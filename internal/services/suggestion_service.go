package services

import (
	"context"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
)

type SuggestionServiceInterface interface {
	FetchSuggestions(ctx context.Context, query request_models.TripQuery) ([]response_models.DestinationSuggestion, error)
}

type SuggestionService struct {
	backend TripBackendClient
	pricing PricingProvider
	logger  *zap.Logger
}

func NewSuggestionService(backend TripBackendClient, pricing PricingProvider, logger *zap.Logger) SuggestionServiceInterface {
	return &SuggestionService{
		backend: backend,
		pricing: pricing,
		logger:  logger,
	}
}

func (s *SuggestionService) FetchSuggestions(ctx context.Context, query request_models.TripQuery) ([]response_models.DestinationSuggestion, error) {
	payloads, err := s.backend.GetTravelSuggestions(ctx, query.SuggestionRequest())
	if err != nil {
		return nil, err
	}

	out := make([]response_models.DestinationSuggestion, len(payloads))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range payloads {
		g.Go(func() error {
			out[i] = s.price(gctx, query, p)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// price keeps server-supplied prices and only looks up what is missing:
// cheapest flight first, then the priciest hotel the remaining budget covers.
func (s *SuggestionService) price(ctx context.Context, query request_models.TripQuery, p response_models.SuggestionPayload) response_models.DestinationSuggestion {
	sug := response_models.DestinationSuggestion{
		Destination: p.Destination,
		Summary:     p.Summary,
	}

	if p.FlightPrice != nil && p.HotelPrice != nil {
		sug.FlightPrice = *p.FlightPrice
		sug.HotelPrice = *p.HotelPrice
		// total_price is ignored so the list and the itinerary agree
		sug.TotalPrice = sug.FlightPrice + sug.HotelPrice
		sug.Priced = true
		return sug
	}

	if p.FlightPrice != nil {
		sug.FlightPrice = *p.FlightPrice
	} else {
		flight, err := s.pricing.CheapestFlight(ctx, p.Destination, query.StartDate, query.EndDate)
		if err != nil {
			s.logger.Warn("flight lookup failed", zap.String("destination", p.Destination), zap.Error(err))
			return sug
		}
		sug.FlightPrice = flight.Price
	}

	hotel, err := s.pricing.MostExpensiveHotel(ctx, p.Destination, query.Budget-sug.FlightPrice, query.StartDate, query.EndDate)
	if err != nil {
		s.logger.Warn("hotel lookup failed", zap.String("destination", p.Destination), zap.Error(err))
		return sug
	}
	sug.HotelPrice = hotel.Price
	sug.TotalPrice = sug.FlightPrice + sug.HotelPrice
	sug.Priced = true

	return sug
}
