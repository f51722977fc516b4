package response_models

type POI struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Address       string   `json:"address"`
	Description   string   `json:"description,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	TicketPrice   int      `json:"ticket_price,omitempty"`
	BusinessHours string   `json:"business_hours,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Longitude     float64  `json:"longitude,omitempty"`
	Latitude      float64  `json:"latitude,omitempty"`

	Similarity float64 `json:"similarity,omitempty"`
}
