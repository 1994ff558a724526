package services

import (
	"context"
	"strings"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
)

// imageUnavailable is what the backend writes when an image generation fails.
const imageUnavailable = "URL not available"

type ItineraryServiceInterface interface {
	FetchDailyPlan(ctx context.Context, destination string, query request_models.TripQuery) (*response_models.DailyPlan, error)
}

type ItineraryService struct {
	backend TripBackendClient
}

func NewItineraryService(backend TripBackendClient) ItineraryServiceInterface {
	return &ItineraryService{backend: backend}
}

func (s *ItineraryService) FetchDailyPlan(ctx context.Context, destination string, query request_models.TripQuery) (*response_models.DailyPlan, error) {
	payload, err := s.backend.GenerateDailyPlan(ctx, query.DailyPlanRequest(destination))
	if err != nil {
		return nil, err
	}

	images := make([]string, len(payload.Images))
	for i, img := range payload.Images {
		if img == nil {
			continue
		}
		url := strings.TrimSpace(*img)
		if url == imageUnavailable {
			continue
		}
		images[i] = url
	}

	return &response_models.DailyPlan{
		Text:   payload.DailyPlan,
		Images: images,
	}, nil
}
