package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Coordinate struct {
	Lng float64
	Lat float64
}

// DriveLeg is one driving segment between two coordinates.
type DriveLeg struct {
	DistanceMeters  int
	DurationSeconds int
}

// AmapClientInterface is the raw provider boundary. Lookups that find
// nothing and lookups that fail on the wire both come back as ok=false;
// callers degrade instead of aborting.
type AmapClientInterface interface {
	Geocode(ctx context.Context, address, city string) (Coordinate, bool)
	PlaceOpenHours(ctx context.Context, keyword, city string) (string, bool)
	DrivingDistance(ctx context.Context, origin, destination Coordinate) (DriveLeg, bool)
}

type AmapClient struct {
	HTTP   *http.Client
	APIKey string

	geocodeURL  string
	placeURL    string
	distanceURL string
}

func NewAmapClient() *AmapClient {
	key := os.Getenv("AMAP_API_KEY")
	if key == "" {
		log.Println("[AMAP] AMAP_API_KEY is empty; all lookups will fail")
	}
	return &AmapClient{
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		APIKey:      key,
		geocodeURL:  "https://restapi.amap.com/v3/geocode/geo",
		placeURL:    "https://restapi.amap.com/v3/place/text",
		distanceURL: "https://restapi.amap.com/v3/distance",
	}
}

func (c *AmapClient) get(ctx context.Context, rawURL string, params url.Values, out interface{}) error {
	params.Set("key", c.APIKey)
	params.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("amap http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("amap bad status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseLocation(location string) (Coordinate, bool) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return Coordinate{}, false
	}
	lng, err1 := strconv.ParseFloat(parts[0], 64)
	lat, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return Coordinate{}, false
	}
	return Coordinate{Lng: lng, Lat: lat}, true
}

// Geocode resolves an address to (lng, lat). When the geocode API has no
// match it falls back to keyword place search before giving up.
func (c *AmapClient) Geocode(ctx context.Context, address, city string) (Coordinate, bool) {
	params := url.Values{}
	params.Set("address", address)
	if city != "" {
		params.Set("city", city)
	}

	var payload struct {
		Status   string `json:"status"`
		Geocodes []struct {
			Location string `json:"location"`
		} `json:"geocodes"`
	}
	if err := c.get(ctx, c.geocodeURL, params, &payload); err != nil {
		log.Printf("[AMAP] geocode request failed: address=%s err=%v", address, err)
	} else if payload.Status == "1" && len(payload.Geocodes) > 0 {
		if coord, ok := parseLocation(payload.Geocodes[0].Location); ok {
			return coord, true
		}
	} else {
		log.Printf("[AMAP] geocode no result, trying place search: address=%s", address)
	}

	place, ok := c.fetchPlace(ctx, address, city)
	if !ok {
		return Coordinate{}, false
	}
	return parseLocation(place.Location)
}

type amapPlace struct {
	Location      string          `json:"location"`
	BusinessHours string          `json:"business_hours"`
	Opentime      string          `json:"opentime"`
	OpentimeWeek  string          `json:"opentime_week"`
	BizExt        json.RawMessage `json:"biz_ext"`
}

func (c *AmapClient) fetchPlace(ctx context.Context, keyword, city string) (amapPlace, bool) {
	params := url.Values{}
	params.Set("keywords", keyword)
	params.Set("offset", "1")
	params.Set("page", "1")
	if city != "" {
		params.Set("city", city)
	}

	var payload struct {
		Status string      `json:"status"`
		Pois   []amapPlace `json:"pois"`
	}
	if err := c.get(ctx, c.placeURL, params, &payload); err != nil {
		log.Printf("[AMAP] place search failed: keyword=%s err=%v", keyword, err)
		return amapPlace{}, false
	}
	if payload.Status != "1" || len(payload.Pois) == 0 {
		return amapPlace{}, false
	}
	return payload.Pois[0], true
}

// PlaceOpenHours probes the fields AMap scatters business hours across:
// business_hours, opentime, opentime_week, then biz_ext.open_time. biz_ext
// is an empty array for some POIs, hence the RawMessage dance.
func (c *AmapClient) PlaceOpenHours(ctx context.Context, keyword, city string) (string, bool) {
	place, ok := c.fetchPlace(ctx, keyword, city)
	if !ok {
		return "", false
	}

	for _, v := range []string{place.BusinessHours, place.Opentime, place.OpentimeWeek} {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}

	if len(place.BizExt) > 0 {
		var bizExt struct {
			OpenTime  string `json:"open_time"`
			OpenHours string `json:"open_hours"`
		}
		if err := json.Unmarshal(place.BizExt, &bizExt); err == nil {
			for _, v := range []string{bizExt.OpenTime, bizExt.OpenHours} {
				if strings.TrimSpace(v) != "" {
					return strings.TrimSpace(v), true
				}
			}
		}
	}

	log.Printf("[AMAP] open hours missing in POI response: keyword=%s", keyword)
	return "", false
}

func (c *AmapClient) DrivingDistance(ctx context.Context, origin, destination Coordinate) (DriveLeg, bool) {
	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Lng, origin.Lat))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Lng, destination.Lat))
	params.Set("type", "1") // driving

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Distance string `json:"distance"`
			Duration string `json:"duration"`
		} `json:"results"`
	}
	if err := c.get(ctx, c.distanceURL, params, &payload); err != nil {
		log.Printf("[AMAP] distance request failed: err=%v", err)
		return DriveLeg{}, false
	}
	if payload.Status != "1" || len(payload.Results) == 0 {
		log.Printf("[AMAP] distance query returned no result")
		return DriveLeg{}, false
	}

	// The API returns numbers as strings.
	distance, err1 := strconv.ParseFloat(payload.Results[0].Distance, 64)
	duration, err2 := strconv.ParseFloat(payload.Results[0].Duration, 64)
	if err1 != nil || err2 != nil {
		return DriveLeg{}, false
	}
	return DriveLeg{DistanceMeters: int(distance), DurationSeconds: int(duration)}, true
}
