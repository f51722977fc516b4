package response_models

// OpenStatus is the tri-state verdict of the open-hours check. An empty
// value means the activity has not been evaluated yet.
type OpenStatus string

const (
	OpenStatusOpen    OpenStatus = "open"
	OpenStatusClosed  OpenStatus = "closed"
	OpenStatusUnknown OpenStatus = "unknown"
)

type ClosedReason string

const (
	ClosedReasonUnknownHours ClosedReason = "unknown_hours"
	ClosedReasonMissingHours ClosedReason = "missing_hours"
	ClosedReasonClosed       ClosedReason = "closed"
	ClosedReasonReplaced     ClosedReason = "replaced"
)

// ReplacementCandidate is one scored entry of the shortlist kept on a
// replaced (or unreplaceable) activity so callers can see why a venue
// was or was not picked.
type ReplacementCandidate struct {
	Name            string     `json:"name"`
	Similarity      float64    `json:"similarity"`
	Score           float64    `json:"score"`
	CommuteDeltaMin int        `json:"commute_delta_min"`
	Open            OpenStatus `json:"open"`
	OpenHoursRaw    string     `json:"open_hours_raw,omitempty"`
}

type Activity struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	Location        string `json:"location"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description"`
	EstimatedCost   *int   `json:"estimated_cost,omitempty"`
	Tips            string `json:"tips,omitempty"`

	// Annotation fields, owned by the trip annotator. Rewritten on every
	// pass; ResetAnnotations must cover all of them.
	DistanceKmFromPrev       *float64               `json:"distance_km_from_prev,omitempty"`
	DriveTimeMinFromPrev     *int                   `json:"drive_time_min_from_prev,omitempty"`
	OpenStatus               OpenStatus             `json:"open_ok,omitempty"`
	OpenHoursRaw             string                 `json:"open_hours_raw,omitempty"`
	ClosedReason             ClosedReason           `json:"closed_reason,omitempty"`
	ReplacedFrom             string                 `json:"replaced_from,omitempty"`
	ReplacedFromOpenHours    string                 `json:"replaced_from_open_hours_raw,omitempty"`
	OpenHoursExplain         string                 `json:"open_hours_explain,omitempty"`
	ReplacementReason        string                 `json:"replacement_reason,omitempty"`
	ReplacementCommuteDelta  *int                   `json:"replacement_commute_delta_min,omitempty"`
	ReplacementCandidates    []ReplacementCandidate `json:"replacement_candidates,omitempty"`
}

// ResetAnnotations clears every derived field so a second annotation pass
// starts from the same state as the first.
func (a *Activity) ResetAnnotations() {
	a.DistanceKmFromPrev = nil
	a.DriveTimeMinFromPrev = nil
	a.OpenStatus = ""
	a.OpenHoursRaw = ""
	a.ClosedReason = ""
	a.ReplacedFrom = ""
	a.ReplacedFromOpenHours = ""
	a.OpenHoursExplain = ""
	a.ReplacementReason = ""
	a.ReplacementCommuteDelta = nil
	a.ReplacementCandidates = nil
}

type DayPlan struct {
	Date               string     `json:"date"`
	DayTitle           string     `json:"day_title,omitempty"`
	Activities         []Activity `json:"activities"`
	DailySummary       string     `json:"daily_summary,omitempty"`
	EstimatedDailyCost int        `json:"estimated_daily_cost,omitempty"`
}

type TripPlan struct {
	Destination        string           `json:"destination"`
	DurationDays       int              `json:"duration_days"`
	Theme              string           `json:"theme,omitempty"`
	StartDate          string           `json:"start_date,omitempty"`
	EndDate            string           `json:"end_date,omitempty"`
	DailyPlans         []DayPlan        `json:"daily_plans"`
	TotalEstimatedCost int              `json:"total_estimated_cost,omitempty"`
	GeneralTips        []string         `json:"general_tips,omitempty"`
	Weather            *WeatherForecast `json:"weather,omitempty"`
}

// Violation marks an activity the annotator could not verify or repair.
type Violation struct {
	Type string `json:"type"`
	Day  string `json:"day"`
	Name string `json:"name"`
}

type PlanResponse struct {
	Plan       *TripPlan   `json:"plan"`
	Violations []Violation `json:"violations"`
}

type DailyForecast struct {
	Date    string `json:"date"`
	TextDay string `json:"text_day"`
	TempMin int    `json:"temp_min"`
	TempMax int    `json:"temp_max"`
	Advice  string `json:"advice,omitempty"`
}

type WeatherForecast struct {
	City     string          `json:"city"`
	Source   string          `json:"source"`
	Forecast []DailyForecast `json:"forecast"`
}
