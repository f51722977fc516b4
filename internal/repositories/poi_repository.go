package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wayfarer/internal/models/db_models"
)

type POIRepository interface {
	GetByID(ctx context.Context, id string) (*db_models.POI, error)
	GetByExactName(ctx context.Context, name string) (*db_models.POI, error)
	ListByIDs(ctx context.Context, ids []string) ([]db_models.POI, error)
	List(ctx context.Context, page, pageSize int) ([]db_models.POI, error)
	Create(ctx context.Context, poi *db_models.POI) error
}

type poiRepository struct {
	db *gorm.DB
}

func NewPOIRepository(db *gorm.DB) POIRepository {
	return &poiRepository{db: db}
}

func (r *poiRepository) GetByID(ctx context.Context, id string) (*db_models.POI, error) {
	var poi db_models.POI
	err := r.db.WithContext(ctx).First(&poi, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &poi, nil
}

// GetByExactName backs the business-hours catalog fallback. Matching is
// case-insensitive on the trimmed name; no fuzzy search here.
func (r *poiRepository) GetByExactName(ctx context.Context, name string) (*db_models.POI, error) {
	var poi db_models.POI
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		First(&poi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &poi, nil
}

func (r *poiRepository) ListByIDs(ctx context.Context, ids []string) ([]db_models.POI, error) {
	var pois []db_models.POI
	if len(ids) == 0 {
		return pois, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pois).Error; err != nil {
		return nil, err
	}

	// Preserve the caller's ranking order.
	byID := make(map[string]db_models.POI, len(pois))
	for _, poi := range pois {
		byID[poi.ID.String()] = poi
	}
	ordered := make([]db_models.POI, 0, len(pois))
	for _, id := range ids {
		if poi, ok := byID[id]; ok {
			ordered = append(ordered, poi)
		}
	}
	return ordered, nil
}

func (r *poiRepository) List(ctx context.Context, page, pageSize int) ([]db_models.POI, error) {
	var pois []db_models.POI
	err := r.db.WithContext(ctx).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Order("name").
		Find(&pois).Error
	if err != nil {
		return nil, err
	}
	return pois, nil
}

func (r *poiRepository) Create(ctx context.Context, poi *db_models.POI) error {
	if poi.ID == uuid.Nil {
		poi.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(poi).Error
}
