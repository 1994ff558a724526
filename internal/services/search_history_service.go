package services

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"time"
	"tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

type SearchHistoryServiceInterface interface {
	// RecordSearch stores a submitted query under searchID, which the caller
	// assigns so a later selection can refer to it before the insert lands.
	RecordSearch(ctx context.Context, searchID uuid.UUID, sessionID string, query request_models.TripQuery, suggestionCount int) error
	RecordSelection(ctx context.Context, searchID uuid.UUID, destination string) error
	// ListRecentSearches only returns the searches of sessionID.
	ListRecentSearches(ctx context.Context, sessionID string, page int, pageSize int) ([]response_models.TripSearchResponse, error)
}

type SearchHistoryService struct {
	repo repositories.TripSearchRepository
	loc  *time.Location
}

func NewSearchHistoryService(repo repositories.TripSearchRepository, loc *time.Location) SearchHistoryServiceInterface {
	return &SearchHistoryService{repo: repo, loc: loc}
}

func (s *SearchHistoryService) RecordSearch(ctx context.Context, searchID uuid.UUID, sessionID string, query request_models.TripQuery, suggestionCount int) error {
	search := &db_models.TripSearch{
		BaseModel:       db_models.BaseModel{ID: searchID},
		SessionID:       sessionID,
		StartDate:       utils.FormatDate(query.StartDate),
		EndDate:         utils.FormatDate(query.EndDate),
		Budget:          query.Budget,
		TripType:        string(query.TripType),
		SuggestionCount: suggestionCount,
	}
	if err := s.repo.CreateSearch(ctx, search); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (s *SearchHistoryService) RecordSelection(ctx context.Context, searchID uuid.UUID, destination string) error {
	if searchID == uuid.Nil {
		return nil
	}
	if err := s.repo.UpdateSelectedDestination(ctx, searchID, destination); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (s *SearchHistoryService) ListRecentSearches(ctx context.Context, sessionID string, page int, pageSize int) ([]response_models.TripSearchResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	searches, err := s.repo.ListRecentSearches(ctx, sessionID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.TripSearchResponse, 0, len(searches))
	for _, search := range searches {
		out = append(out, response_models.TripSearchResponse{
			ID:                  search.ID.String(),
			StartDate:           search.StartDate,
			EndDate:             search.EndDate,
			Budget:              search.Budget,
			TripType:            search.TripType,
			SuggestionCount:     search.SuggestionCount,
			SelectedDestination: search.SelectedDestination,
			CreatedAt:           utils.FormatUnixSeconds(search.CreatedAt, s.loc),
		})
	}
	return out, nil
}
