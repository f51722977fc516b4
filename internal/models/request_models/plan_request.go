package request_models

// TripRequest is the structured planning request.
type TripRequest struct {
	Destination          string   `json:"destination" binding:"required"`
	DurationDays         int      `json:"duration_days" binding:"required,min=1,max=30"`
	Theme                string   `json:"theme"`
	Budget               *int     `json:"budget"`
	Interests            []string `json:"interests"`
	StartDate            string   `json:"start_date"`
	IncludeAccommodation bool     `json:"include_accommodation"`
}

// FreeTextPlanRequest carries a raw user sentence, e.g. "two days in
// Beijing with kids, budget 1000, want the Palace Museum".
type FreeTextPlanRequest struct {
	Text string `json:"text" binding:"required"`
}
