package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

type PlannerServiceInterface interface {
	CreatePlan(ctx context.Context, req request_models.TripRequest) (*response_models.TripPlan, error)
	CreatePlanFromText(ctx context.Context, text string) (*response_models.TripPlan, error)
}

type PlannerService struct {
	llm        utils.PlanGeneratorInterface
	candidates POICandidateSourceInterface
}

func NewPlannerService(llm utils.PlanGeneratorInterface, candidates POICandidateSourceInterface) PlannerServiceInterface {
	return &PlannerService{llm: llm, candidates: candidates}
}

const plannerSystemPrompt = "You are a professional travel planner. " +
	"You create detailed multi-day itineraries and respond with strict JSON only, " +
	"no surrounding prose and no markdown."

func (p *PlannerService) CreatePlan(ctx context.Context, req request_models.TripRequest) (*response_models.TripPlan, error) {
	if strings.TrimSpace(req.Destination) == "" || req.DurationDays < 1 {
		return nil, utils.ErrInvalidInput
	}

	query := req.Destination
	if req.Theme != "" {
		query += " " + req.Theme
	}
	if len(req.Interests) > 0 {
		query += " " + strings.Join(req.Interests, " ")
	}

	prompt := p.buildPrompt(ctx, plannerBrief{
		Destination:  req.Destination,
		DurationDays: req.DurationDays,
		Theme:        req.Theme,
		Budget:       req.Budget,
		Interests:    req.Interests,
		StartDate:    req.StartDate,
		WithLodging:  req.IncludeAccommodation,
	}, query)

	return p.generate(ctx, prompt, req.DurationDays, req.StartDate)
}

func (p *PlannerService) CreatePlanFromText(ctx context.Context, text string) (*response_models.TripPlan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, utils.ErrInvalidInput
	}

	days := extractDayCount(text)
	prompt := p.buildPrompt(ctx, plannerBrief{
		FreeText:     text,
		DurationDays: days,
	}, text)

	return p.generate(ctx, prompt, days, "")
}

type plannerBrief struct {
	Destination  string
	DurationDays int
	Theme        string
	Budget       *int
	Interests    []string
	StartDate    string
	WithLodging  bool
	FreeText     string
}

func (p *PlannerService) buildPrompt(ctx context.Context, brief plannerBrief, poiQuery string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a %d-day travel itinerary.\n\n", brief.DurationDays)
	if brief.FreeText != "" {
		fmt.Fprintf(&b, "User request (free text): %s\n", brief.FreeText)
	} else {
		fmt.Fprintf(&b, "Destination: %s\n", brief.Destination)
		if brief.Theme != "" {
			fmt.Fprintf(&b, "Theme: %s\n", brief.Theme)
		}
		if brief.Budget != nil {
			fmt.Fprintf(&b, "Budget: %d\n", *brief.Budget)
		}
		if len(brief.Interests) > 0 {
			fmt.Fprintf(&b, "Interests: %s\n", strings.Join(brief.Interests, ", "))
		}
		if brief.StartDate != "" {
			fmt.Fprintf(&b, "Start date: %s\n", brief.StartDate)
		}
		if !brief.WithLodging {
			b.WriteString("Do not include hotel or accommodation activities.\n")
		}
	}

	// Ground the draft on catalog venues when we have matches; the LLM
	// may still propose others, the validator will vet them all.
	if cands, err := p.candidates.SearchCandidates(ctx, poiQuery, 10); err == nil && len(cands) > 0 {
		b.WriteString("\nPrefer these known venues where they fit:\n")
		for _, c := range cands {
			fmt.Fprintf(&b, "- %s | %s | hours: %s\n", c.Name, c.Address, c.BusinessHours)
		}
	}

	b.WriteString(`
Return JSON matching exactly this schema:
{
  "destination": "string",
  "duration_days": 2,
  "theme": "string",
  "start_date": "YYYY-MM-DD",
  "end_date": "YYYY-MM-DD",
  "daily_plans": [
    {
      "date": "YYYY-MM-DD",
      "day_title": "string",
      "activities": [
        {
          "name": "venue name",
          "type": "sightseeing|dining|shopping|entertainment|transportation|accommodation|culture|nature",
          "location": "street address",
          "start_time": "09:00",
          "end_time": "11:00",
          "duration_minutes": 120,
          "description": "string",
          "estimated_cost": 60,
          "tips": "string"
        }
      ],
      "daily_summary": "string",
      "estimated_daily_cost": 300
    }
  ],
  "total_estimated_cost": 600,
  "general_tips": ["string"]
}

Hard constraints:
- daily_plans has exactly the requested number of days.
- Times are HH:MM, start_time < end_time, activities do not overlap.
- 2-5 activities per day, ordered by visiting time.
JSON only.`)

	return b.String()
}

func (p *PlannerService) generate(ctx context.Context, prompt string, days int, startDate string) (*response_models.TripPlan, error) {
	raw, err := p.llm.GeneratePlanJSON(ctx, plannerSystemPrompt, prompt)
	if err != nil {
		log.Printf("[PLANNER] generation failed: %v", err)
		return nil, utils.ErrPlannerFailure
	}

	cleaned := extractJSONObject(raw)
	var plan response_models.TripPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		log.Printf("[PLANNER] unusable JSON: %v", err)
		return nil, utils.ErrPlannerFailure
	}
	if len(plan.DailyPlans) == 0 {
		return nil, utils.ErrPlannerFailure
	}

	normalizePlan(&plan, days, startDate)
	return &plan, nil
}

// normalizePlan patches up the fields models commonly get wrong: the day
// count header and missing per-day dates.
func normalizePlan(plan *response_models.TripPlan, days int, startDate string) {
	plan.DurationDays = len(plan.DailyPlans)
	if days > 0 && len(plan.DailyPlans) > days {
		plan.DailyPlans = plan.DailyPlans[:days]
		plan.DurationDays = days
	}

	start, err := time.Parse("2006-01-02", firstNonEmpty(startDate, plan.StartDate))
	if err != nil {
		start = time.Now()
	}
	for i := range plan.DailyPlans {
		if plan.DailyPlans[i].Date == "" {
			plan.DailyPlans[i].Date = start.AddDate(0, 0, i).Format("2006-01-02")
		}
	}
	plan.StartDate = plan.DailyPlans[0].Date
	plan.EndDate = plan.DailyPlans[len(plan.DailyPlans)-1].Date
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var dayCountPattern = regexp.MustCompile(`(?i)(\d+)\s*-?\s*day`)

// extractDayCount guesses the trip length from free text; defaults to 3.
func extractDayCount(text string) int {
	if m := dayCountPattern.FindStringSubmatch(text); len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 30 {
			return n
		}
	}
	switch {
	case strings.Contains(text, "weekend"):
		return 2
	case strings.Contains(text, "week"):
		return 7
	}
	return 3
}

// extractJSONObject strips markdown fences and any prose around the
// outermost JSON object or array.
func extractJSONObject(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if end := findMatching(response, objStart, '{', '}'); end != -1 {
			return response[objStart : end+1]
		}
	} else if arrStart != -1 {
		if end := findMatching(response, arrStart, '[', ']'); end != -1 {
			return response[arrStart : end+1]
		}
	}
	return response
}

func findMatching(s string, start int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
