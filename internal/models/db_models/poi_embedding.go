package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type PoiEmbedding struct {
	PoiID         string `gorm:"primaryKey;column:poi_id"`
	Name          string
	Document      string
	BusinessHours string
	Tags          pq.StringArray  `gorm:"type:text[]"`
	Embedding     pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`

	// Similarity is filled by the vector search query, not stored.
	Similarity float64 `gorm:"->;-:migration"`
}
