package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type PlanController struct {
	planner   services.PlannerServiceInterface
	annotator services.TripAnnotatorInterface
	weather   services.WeatherServiceInterface
}

func NewPlanController(
	planner services.PlannerServiceInterface,
	annotator services.TripAnnotatorInterface,
	weather services.WeatherServiceInterface,
) *PlanController {
	return &PlanController{
		planner:   planner,
		annotator: annotator,
		weather:   weather,
	}
}

// CreatePlan drafts an itinerary, then runs the validation-and-repair
// pass before returning it.
func (p *PlanController) CreatePlan(c *gin.Context) {
	var req request_models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan request: "+err.Error())
		return
	}

	plan, err := p.planner.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, p.finalize(c, plan), "Plan created successfully")
}

func (p *PlanController) CreatePlanFromText(c *gin.Context) {
	var req request_models.FreeTextPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	plan, err := p.planner.CreatePlanFromText(c.Request.Context(), req.Text)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, p.finalize(c, plan), "Plan created successfully")
}

// AnnotatePlan re-runs validation over a caller-supplied itinerary.
// Annotation is idempotent: posting the same plan twice yields the same
// result.
func (p *PlanController) AnnotatePlan(c *gin.Context) {
	var plan response_models.TripPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip plan: "+err.Error())
		return
	}
	if len(plan.DailyPlans) == 0 {
		utils.RespondError(c, http.StatusBadRequest, "Trip plan has no daily plans")
		return
	}

	utils.RespondSuccess(c, p.finalize(c, &plan), "Plan annotated successfully")
}

func (p *PlanController) finalize(c *gin.Context, plan *response_models.TripPlan) response_models.PlanResponse {
	p.annotator.Annotate(c.Request.Context(), plan)
	if plan.Weather == nil && plan.Destination != "" {
		plan.Weather = p.weather.Forecast(c.Request.Context(), plan.Destination, len(plan.DailyPlans))
	}
	return response_models.PlanResponse{
		Plan:       plan,
		Violations: p.annotator.Violations(plan),
	}
}
