package controllers

import (
	"github.com/gin-gonic/gin"

	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type HealthController struct {
	amap services.AmapClientInterface
}

func NewHealthController(amap services.AmapClientInterface) *HealthController {
	return &HealthController{amap: amap}
}

func (h *HealthController) Liveness(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "Service is healthy")
}

// Providers probes the geo provider with a well-known landmark so an
// expired key or network issue shows up before a plan request fails.
func (h *HealthController) Providers(c *gin.Context) {
	ctx := c.Request.Context()

	geocodeOK := false
	hoursOK := false
	if _, ok := h.amap.Geocode(ctx, "天安门", "北京"); ok {
		geocodeOK = true
	}
	if _, ok := h.amap.PlaceOpenHours(ctx, "故宫博物院", "北京"); ok {
		hoursOK = true
	}

	utils.RespondSuccess(c, gin.H{
		"amap_geocode":    geocodeOK,
		"amap_open_hours": hoursOK,
	}, "Provider probe completed")
}
