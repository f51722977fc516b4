package request_models

type CreatePoiRequest struct {
	Name          string   `json:"name" binding:"required"`
	Type          string   `json:"type" binding:"required"`
	Address       string   `json:"address" binding:"required"`
	Description   string   `json:"description"`
	Rating        float64  `json:"rating"`
	TicketPrice   int      `json:"ticket_price"`
	BusinessHours string   `json:"business_hours"`
	Tags          []string `json:"tags"`
	Longitude     float64  `json:"longitude"`
	Latitude      float64  `json:"latitude"`
}
