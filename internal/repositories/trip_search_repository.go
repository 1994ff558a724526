package repositories

import (
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"tripplanner/internal/models/db_models"
)

type TripSearchRepository interface {
	CreateSearch(ctx context.Context, search *db_models.TripSearch) error
	UpdateSelectedDestination(ctx context.Context, searchID uuid.UUID, destination string) error
	ListRecentSearches(ctx context.Context, sessionID string, page int, pageSize int) ([]db_models.TripSearch, error)
}

type tripSearchRepository struct {
	db *gorm.DB
}

func NewTripSearchRepository(db *gorm.DB) TripSearchRepository {
	return &tripSearchRepository{db: db}
}

func (r *tripSearchRepository) CreateSearch(ctx context.Context, search *db_models.TripSearch) error {
	return r.db.WithContext(ctx).Create(search).Error
}

func (r *tripSearchRepository) UpdateSelectedDestination(ctx context.Context, searchID uuid.UUID, destination string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.TripSearch{}).
		Where("id = ?", searchID).
		Update("selected_destination", destination).Error
}

func (r *tripSearchRepository) ListRecentSearches(ctx context.Context, sessionID string, page int, pageSize int) ([]db_models.TripSearch, error) {
	var searches []db_models.TripSearch
	err := r.db.WithContext(ctx).Scopes(func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}).Where("session_id = ?", sessionID).Order("created_at desc").Find(&searches).Error
	if err != nil {
		return nil, err
	}
	return searches, nil
}

// noopTripSearchRepository is used when no database is configured.
type noopTripSearchRepository struct{}

func NewNoopTripSearchRepository() TripSearchRepository {
	return noopTripSearchRepository{}
}

func (noopTripSearchRepository) CreateSearch(ctx context.Context, search *db_models.TripSearch) error {
	if search.ID == uuid.Nil {
		search.ID = uuid.New()
	}
	return nil
}

func (noopTripSearchRepository) UpdateSelectedDestination(ctx context.Context, searchID uuid.UUID, destination string) error {
	return nil
}

func (noopTripSearchRepository) ListRecentSearches(ctx context.Context, sessionID string, page int, pageSize int) ([]db_models.TripSearch, error) {
	return []db_models.TripSearch{}, nil
}
