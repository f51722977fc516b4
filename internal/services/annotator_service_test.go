package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/response_models"
)

type geoResolverMock struct {
	ResolveFunc         func(ctx context.Context, address, cityHint string) (Coordinate, bool)
	OpenHoursFunc       func(ctx context.Context, nameOrAddress, cityHint string) (string, bool)
	DrivingDistanceFunc func(ctx context.Context, origin, destination Coordinate) (DriveLeg, bool)
}

var _ GeoResolverInterface = (*geoResolverMock)(nil)

func (m *geoResolverMock) Resolve(ctx context.Context, address, cityHint string) (Coordinate, bool) {
	if m.ResolveFunc == nil {
		return Coordinate{}, false
	}
	return m.ResolveFunc(ctx, address, cityHint)
}

func (m *geoResolverMock) OpenHours(ctx context.Context, nameOrAddress, cityHint string) (string, bool) {
	if m.OpenHoursFunc == nil {
		return "", false
	}
	return m.OpenHoursFunc(ctx, nameOrAddress, cityHint)
}

func (m *geoResolverMock) DrivingDistance(ctx context.Context, origin, destination Coordinate) (DriveLeg, bool) {
	if m.DrivingDistanceFunc == nil {
		return DriveLeg{}, false
	}
	return m.DrivingDistanceFunc(ctx, origin, destination)
}

type candidateSourceMock struct {
	SearchCandidatesFunc func(ctx context.Context, query string, maxResults int) ([]POICandidate, error)
}

var _ POICandidateSourceInterface = (*candidateSourceMock)(nil)

func (m *candidateSourceMock) SearchCandidates(ctx context.Context, query string, maxResults int) ([]POICandidate, error) {
	if m.SearchCandidatesFunc == nil {
		return nil, nil
	}
	return m.SearchCandidatesFunc(ctx, query, maxResults)
}

func twoStopDay() *response_models.TripPlan {
	return &response_models.TripPlan{
		Destination: "Beijing",
		DailyPlans: []response_models.DayPlan{
			{
				Date: "2026-04-01",
				Activities: []response_models.Activity{
					{Name: "Museum A", Location: "1 Museum Rd", StartTime: "09:00", EndTime: "11:00"},
					{Name: "Garden B", Location: "2 Garden St", StartTime: "13:00", EndTime: "15:00"},
				},
			},
		},
	}
}

func TestAnnotateDistances(t *testing.T) {
	coords := map[string]Coordinate{
		"1 Museum Rd": {Lng: 116.38, Lat: 39.90},
		"2 Garden St": {Lng: 116.41, Lat: 39.92},
	}
	geo := &geoResolverMock{
		ResolveFunc: func(_ context.Context, address, _ string) (Coordinate, bool) {
			c, ok := coords[address]
			return c, ok
		},
		OpenHoursFunc: func(_ context.Context, _, _ string) (string, bool) {
			return "08:00-18:00", true
		},
		DrivingDistanceFunc: func(_ context.Context, _, _ Coordinate) (DriveLeg, bool) {
			return DriveLeg{DistanceMeters: 5000, DurationSeconds: 600}, true
		},
	}

	annotator := NewTripAnnotator(geo, &candidateSourceMock{}, DefaultAnnotatorConfig())
	plan := annotator.Annotate(context.Background(), twoStopDay())

	first := plan.DailyPlans[0].Activities[0]
	assert.Nil(t, first.DistanceKmFromPrev, "first activity of a day has no previous leg")
	assert.Nil(t, first.DriveTimeMinFromPrev)

	second := plan.DailyPlans[0].Activities[1]
	require.NotNil(t, second.DistanceKmFromPrev)
	require.NotNil(t, second.DriveTimeMinFromPrev)
	assert.Equal(t, 5.0, *second.DistanceKmFromPrev)
	assert.Equal(t, 10, *second.DriveTimeMinFromPrev)
}

func TestAnnotateDistancesUnresolvableStop(t *testing.T) {
	geo := &geoResolverMock{
		ResolveFunc: func(_ context.Context, address, _ string) (Coordinate, bool) {
			if address == "1 Museum Rd" {
				return Coordinate{Lng: 116.38, Lat: 39.90}, true
			}
			return Coordinate{}, false
		},
		OpenHoursFunc: func(_ context.Context, _, _ string) (string, bool) {
			return "08:00-18:00", true
		},
	}

	annotator := NewTripAnnotator(geo, &candidateSourceMock{}, DefaultAnnotatorConfig())
	plan := annotator.Annotate(context.Background(), twoStopDay())

	second := plan.DailyPlans[0].Activities[1]
	assert.Nil(t, second.DistanceKmFromPrev, "leg with an unresolvable endpoint stays unannotated")
	assert.Equal(t, response_models.OpenStatusOpen, second.OpenStatus)
}

func TestAnnotateMarksOpenAndUnknown(t *testing.T) {
	hours := map[string]string{
		"Museum A": "08:00-18:00",
	}
	geo := &geoResolverMock{
		OpenHoursFunc: func(_ context.Context, name, _ string) (string, bool) {
			h, ok := hours[name]
			return h, ok
		},
	}

	annotator := NewTripAnnotator(geo, &candidateSourceMock{}, DefaultAnnotatorConfig())
	plan := annotator.Annotate(context.Background(), twoStopDay())

	assert.Equal(t, response_models.OpenStatusOpen, plan.DailyPlans[0].Activities[0].OpenStatus)
	assert.Equal(t, "08:00-18:00", plan.DailyPlans[0].Activities[0].OpenHoursRaw)

	unknown := plan.DailyPlans[0].Activities[1]
	assert.Equal(t, response_models.OpenStatusUnknown, unknown.OpenStatus)
	assert.Equal(t, response_models.ClosedReasonMissingHours, unknown.ClosedReason)
	assert.Empty(t, annotator.Violations(plan), "unknown is not a violation")
}

func closedVenuePlan() *response_models.TripPlan {
	return &response_models.TripPlan{
		Destination: "Beijing",
		DailyPlans: []response_models.DayPlan{
			{
				Date: "2026-04-01",
				Activities: []response_models.Activity{
					{Name: "Breakfast Cafe", Location: "5 Cafe Ln", StartTime: "08:00", EndTime: "09:00"},
					{Name: "Old Temple", Location: "9 Temple Way", StartTime: "10:00", EndTime: "12:00", Tips: "Wear comfy shoes."},
					{Name: "Noodle House", Location: "3 Noodle St", StartTime: "12:30", EndTime: "13:30"},
				},
			},
		},
	}
}

func replacementFixture() (*geoResolverMock, *candidateSourceMock) {
	hours := map[string]string{
		"Breakfast Cafe": "07:00-11:00",
		"Old Temple":     "14:00-17:00", // closed for the 10:00-12:00 visit
		"Noodle House":   "11:00-21:00",
		"New Shrine":     "09:00-18:00",
	}
	geo := &geoResolverMock{
		ResolveFunc: func(_ context.Context, _, _ string) (Coordinate, bool) {
			return Coordinate{Lng: 116.4, Lat: 39.9}, true
		},
		OpenHoursFunc: func(_ context.Context, name, _ string) (string, bool) {
			h, ok := hours[name]
			return h, ok
		},
		DrivingDistanceFunc: func(_ context.Context, _, _ Coordinate) (DriveLeg, bool) {
			return DriveLeg{DistanceMeters: 2000, DurationSeconds: 300}, true
		},
	}
	source := &candidateSourceMock{
		SearchCandidatesFunc: func(_ context.Context, _ string, _ int) ([]POICandidate, error) {
			return []POICandidate{
				{ID: "1", Name: "New Shrine", Address: "11 Shrine Rd", Similarity: 0.92,
					Description: "A quiet shrine.", BusinessHours: "09:00-18:00"},
				{ID: "2", Name: "Shut Pagoda", Address: "7 Pagoda Ct", Similarity: 0.95,
					BusinessHours: "15:00-18:00"},
				{ID: "3", Name: "Old Temple", Address: "9 Temple Way", Similarity: 0.99},
			}, nil
		},
	}
	return geo, source
}

func TestReplacementPicksBestOpenCandidate(t *testing.T) {
	geo, source := replacementFixture()
	annotator := NewTripAnnotator(geo, source, DefaultAnnotatorConfig())
	plan := annotator.Annotate(context.Background(), closedVenuePlan())

	act := plan.DailyPlans[0].Activities[1]
	// Shut Pagoda scores higher but is closed for 10:00-12:00; the
	// same-name candidate is skipped outright.
	assert.Equal(t, "New Shrine", act.Name)
	assert.Equal(t, "11 Shrine Rd", act.Location)
	assert.Equal(t, response_models.OpenStatusOpen, act.OpenStatus)
	assert.Equal(t, response_models.ClosedReasonReplaced, act.ClosedReason)
	assert.Equal(t, "Old Temple", act.ReplacedFrom)
	assert.Equal(t, "14:00-17:00", act.ReplacedFromOpenHours)
	assert.Equal(t, "09:00-18:00", act.OpenHoursRaw)
	assert.Contains(t, act.ReplacementReason, "similarity 0.92")
	require.NotNil(t, act.ReplacementCommuteDelta)
	assert.Equal(t, 10, *act.ReplacementCommuteDelta, "5 min in + 5 min out")
	assert.NotEmpty(t, act.ReplacementCandidates)
	assert.LessOrEqual(t, len(act.ReplacementCandidates), 5)
	assert.Contains(t, act.Tips, "Wear comfy shoes.")
	assert.Contains(t, act.Tips, `"Old Temple" was closed`)

	assert.Empty(t, annotator.Violations(plan))
}

func TestReplacementKeepsShortlistWhenNothingOpen(t *testing.T) {
	geo, source := replacementFixture()
	source.SearchCandidatesFunc = func(_ context.Context, _ string, _ int) ([]POICandidate, error) {
		return []POICandidate{
			{ID: "2", Name: "Shut Pagoda", Address: "7 Pagoda Ct", Similarity: 0.95,
				BusinessHours: "15:00-18:00"},
		}, nil
	}

	annotator := NewTripAnnotator(geo, source, DefaultAnnotatorConfig())
	plan := annotator.Annotate(context.Background(), closedVenuePlan())

	act := plan.DailyPlans[0].Activities[1]
	assert.Equal(t, "Old Temple", act.Name, "activity is untouched when no candidate is open")
	assert.Equal(t, response_models.OpenStatusClosed, act.OpenStatus)
	require.Len(t, act.ReplacementCandidates, 1)
	assert.Equal(t, response_models.OpenStatusClosed, act.ReplacementCandidates[0].Open)

	violations := annotator.Violations(plan)
	require.Len(t, violations, 1)
	assert.Equal(t, "closed", violations[0].Type)
	assert.Equal(t, "2026-04-01", violations[0].Day)
	assert.Equal(t, "Old Temple", violations[0].Name)
}

func TestReplacementDegradesWhenSearchFails(t *testing.T) {
	geo, source := replacementFixture()
	source.SearchCandidatesFunc = func(_ context.Context, _ string, _ int) ([]POICandidate, error) {
		return nil, errors.New("embedding provider down")
	}

	annotator := NewTripAnnotator(geo, source, DefaultAnnotatorConfig())
	plan := annotator.Annotate(context.Background(), closedVenuePlan())

	act := plan.DailyPlans[0].Activities[1]
	assert.Equal(t, "Old Temple", act.Name)
	assert.Equal(t, response_models.OpenStatusClosed, act.OpenStatus)
	assert.Empty(t, act.ReplacementCandidates)
	assert.Len(t, annotator.Violations(plan), 1)
}

func TestScoringPrefersCloserCandidateOnTie(t *testing.T) {
	geo, source := replacementFixture()
	geo.DrivingDistanceFunc = func(_ context.Context, origin, dest Coordinate) (DriveLeg, bool) {
		return DriveLeg{DistanceMeters: 1000, DurationSeconds: 60}, true
	}
	source.SearchCandidatesFunc = func(_ context.Context, _ string, _ int) ([]POICandidate, error) {
		return []POICandidate{
			{ID: "a", Name: "Near Hall", Address: "near", Similarity: 0.90, BusinessHours: "08:00-20:00"},
			{ID: "b", Name: "Far Hall", Address: "far", Similarity: 0.90, BusinessHours: "08:00-20:00"},
		}, nil
	}
	// Make "far" unresolvable so both its legs take the missing-leg penalty.
	geo.ResolveFunc = func(_ context.Context, address, _ string) (Coordinate, bool) {
		if address == "far" {
			return Coordinate{}, false
		}
		return Coordinate{Lng: 116.4, Lat: 39.9}, true
	}

	annotator := NewTripAnnotator(geo, source, DefaultAnnotatorConfig())
	plan := annotator.Annotate(context.Background(), closedVenuePlan())

	act := plan.DailyPlans[0].Activities[1]
	assert.Equal(t, "Near Hall", act.Name)
}

func TestAnnotateIsIdempotent(t *testing.T) {
	geo, source := replacementFixture()
	annotator := NewTripAnnotator(geo, source, DefaultAnnotatorConfig())

	first := annotator.Annotate(context.Background(), closedVenuePlan())
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	second := annotator.Annotate(context.Background(), closedVenuePlan())
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(firstJSON), string(secondJSON))

	// Re-annotating an already repaired plan keeps the repaired venue and
	// does not stack tips notes.
	again := annotator.Annotate(context.Background(), first)
	act := again.DailyPlans[0].Activities[1]
	assert.Equal(t, "New Shrine", act.Name)
	assert.Equal(t, response_models.OpenStatusOpen, act.OpenStatus)
	assert.Equal(t, 1, strings.Count(act.Tips, "was closed for the scheduled time"))
}

func TestTruncateDescriptionPrefersDetailSection(t *testing.T) {
	doc := "Header stuff\n" + DetailIntroMarker + "\nA lovely place with gardens."
	assert.Equal(t, "A lovely place with gardens.", truncateDescription(doc, 160))

	long := make([]rune, 0, 200)
	for i := 0; i < 200; i++ {
		long = append(long, 'x')
	}
	out := truncateDescription(string(long), 160)
	assert.Equal(t, 161, len([]rune(out)), "160 runes plus ellipsis")
}
