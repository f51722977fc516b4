package db_models

import "github.com/lib/pq"

// POI is one catalog row. The catalog doubles as the business-hours
// fallback when the live provider has no hours for a venue, so Name is
// unique and looked up by exact match.
type POI struct {
	BaseModel
	Name          string `gorm:"uniqueIndex"`
	Type          string
	Address       string
	Description   string
	Rating        float64
	TicketPrice   int
	BusinessHours string
	Tags          pq.StringArray `gorm:"type:text[]"`
	Longitude     float64
	Latitude      float64

	Embedding *PoiEmbedding `gorm:"foreignKey:PoiID"`
}
