package repositories

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"wayfarer/internal/models/db_models"
)

type IPoiEmbeddingRepository interface {
	SearchByVector(ctx context.Context, vector pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error)
	Upsert(ctx context.Context, embedding *db_models.PoiEmbedding) error
	DeleteAll(ctx context.Context) error
}

type poiEmbeddingRepository struct {
	db *gorm.DB
}

func NewPoiEmbeddingRepository(db *gorm.DB) IPoiEmbeddingRepository {
	return &poiEmbeddingRepository{db: db}
}

// SearchByVector ranks catalog embeddings by cosine similarity. Similarity
// is 1 - cosine distance, so 1.0 means identical direction.
func (r *poiEmbeddingRepository) SearchByVector(ctx context.Context, vector pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}
	var results []db_models.PoiEmbedding
	query := `
        SELECT *, (1 - (embedding <=> $1)) AS similarity
        FROM poi_embeddings
        ORDER BY embedding <=> $1
        LIMIT $2
    `
	err := r.db.WithContext(ctx).Raw(query, vector.String(), limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *poiEmbeddingRepository) Upsert(ctx context.Context, embedding *db_models.PoiEmbedding) error {
	return r.db.WithContext(ctx).Save(embedding).Error
}

func (r *poiEmbeddingRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("DELETE FROM poi_embeddings").Error
}
