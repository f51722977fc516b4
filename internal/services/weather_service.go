package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wayfarer/internal/models/response_models"
)

type WeatherServiceInterface interface {
	Forecast(ctx context.Context, city string, days int) *response_models.WeatherForecast
}

// WeatherService wraps the QWeather forecast API. Every failure degrades
// to a generated fallback forecast so a plan response never loses its
// weather block.
type WeatherService struct {
	apiKey  string
	apiHost string
	client  *http.Client
	cache   *geoCache[geoKey, *response_models.WeatherForecast]
}

func NewWeatherService(apiKey, apiHost string) WeatherServiceInterface {
	if apiHost == "" {
		apiHost = "https://devapi.qweather.com"
	}
	return &WeatherService{
		apiKey:  apiKey,
		apiHost: apiHost,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   newGeoCache[geoKey, *response_models.WeatherForecast](DefaultGeoCacheTTL),
	}
}

func (w *WeatherService) Forecast(ctx context.Context, city string, days int) *response_models.WeatherForecast {
	if days < 1 {
		days = 1
	}
	key := geoKey{Query: city, City: strconv.Itoa(days)}
	if cached, found, hit := w.cache.get(key); hit && found {
		return cached
	}

	forecast := w.fetch(ctx, city, days)
	if forecast == nil {
		forecast = fallbackForecast(city, days)
	}
	w.cache.set(key, forecast, true)
	return forecast
}

// forecastBucket maps a day count onto the smallest QWeather endpoint
// that covers it.
func forecastBucket(days int) string {
	switch {
	case days <= 3:
		return "3d"
	case days <= 7:
		return "7d"
	case days <= 15:
		return "15d"
	default:
		return "30d"
	}
}

type qweatherLocation struct {
	Location []struct {
		ID string `json:"id"`
	} `json:"location"`
}

type qweatherForecast struct {
	Code  string `json:"code"`
	Daily []struct {
		FxDate  string `json:"fxDate"`
		TextDay string `json:"textDay"`
		TempMin string `json:"tempMin"`
		TempMax string `json:"tempMax"`
	} `json:"daily"`
}

func (w *WeatherService) fetch(ctx context.Context, city string, days int) *response_models.WeatherForecast {
	if w.apiKey == "" {
		return nil
	}

	locationID, ok := w.lookupCity(ctx, city)
	if !ok {
		return nil
	}

	endpoint := fmt.Sprintf("%s/v7/weather/%s?location=%s&key=%s",
		w.apiHost, forecastBucket(days), url.QueryEscape(locationID), url.QueryEscape(w.apiKey))
	var payload qweatherForecast
	if !w.getJSON(ctx, endpoint, &payload) || payload.Code != "200" {
		return nil
	}

	forecast := &response_models.WeatherForecast{City: city, Source: "qweather"}
	for i, d := range payload.Daily {
		if i >= days {
			break
		}
		tmin, _ := strconv.Atoi(d.TempMin)
		tmax, _ := strconv.Atoi(d.TempMax)
		forecast.Forecast = append(forecast.Forecast, response_models.DailyForecast{
			Date:    d.FxDate,
			TextDay: d.TextDay,
			TempMin: tmin,
			TempMax: tmax,
			Advice:  weatherAdvice(d.TextDay, tmax),
		})
	}
	if len(forecast.Forecast) == 0 {
		return nil
	}
	return forecast
}

func (w *WeatherService) lookupCity(ctx context.Context, city string) (string, bool) {
	endpoint := fmt.Sprintf("%s/geo/v2/city/lookup?location=%s&key=%s",
		w.apiHost, url.QueryEscape(city), url.QueryEscape(w.apiKey))
	var payload qweatherLocation
	if !w.getJSON(ctx, endpoint, &payload) || len(payload.Location) == 0 {
		return "", false
	}
	return payload.Location[0].ID, true
}

func (w *WeatherService) getJSON(ctx context.Context, endpoint string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		log.Printf("[WEATHER] request failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[WEATHER] unexpected status: %d", resp.StatusCode)
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[WEATHER] decode failed: %v", err)
		return false
	}
	return true
}

func weatherAdvice(textDay string, tempMax int) string {
	switch {
	case containsAny(textDay, "雨", "rain", "Rain", "shower", "Shower"):
		return "Rain expected, bring an umbrella and plan indoor backups."
	case containsAny(textDay, "雪", "snow", "Snow"):
		return "Snow expected, dress warm and allow extra travel time."
	case tempMax >= 33:
		return "Hot day, schedule outdoor stops for the morning."
	case tempMax <= 5:
		return "Cold day, layer up for outdoor activities."
	default:
		return "Good conditions for the planned activities."
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fallbackForecast fills the weather block when the provider is down or
// unconfigured; Source marks it as synthetic.
func fallbackForecast(city string, days int) *response_models.WeatherForecast {
	forecast := &response_models.WeatherForecast{City: city, Source: "fallback"}
	start := time.Now()
	for i := 0; i < days; i++ {
		forecast.Forecast = append(forecast.Forecast, response_models.DailyForecast{
			Date:    start.AddDate(0, 0, i).Format("2006-01-02"),
			TextDay: "Unknown",
			TempMin: 15,
			TempMax: 25,
			Advice:  "Live forecast unavailable, check conditions before heading out.",
		})
	}
	return forecast
}
