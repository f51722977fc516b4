package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/response_models"
)

func TestParseActivityWindow(t *testing.T) {
	w, ok := ParseActivityWindow("09:00", "11:30")
	require.True(t, ok)
	assert.Equal(t, 540, w.Start)
	assert.Equal(t, 690, w.End)

	_, ok = ParseActivityWindow("11:00", "09:00")
	assert.False(t, ok, "inverted window must be rejected")

	_, ok = ParseActivityWindow("9am", "11:00")
	assert.False(t, ok)

	_, ok = ParseActivityWindow("", "")
	assert.False(t, ok)

	_, ok = ParseActivityWindow("25:00", "26:00")
	assert.False(t, ok)
}

func TestParseOpenHoursSeparators(t *testing.T) {
	windows := ParseOpenHours("08:00-12:00;13:00-17:00")
	require.Len(t, windows, 2)
	assert.Equal(t, TimeWindow{Start: 480, End: 720}, windows[0])
	assert.Equal(t, TimeWindow{Start: 780, End: 1020}, windows[1])

	// Full-width and slash separators normalize to the same result.
	assert.Equal(t, windows, ParseOpenHours("08:00-12:00、13:00-17:00"))
	assert.Equal(t, windows, ParseOpenHours("08:00-12:00/13:00-17:00"))
}

func TestParseOpenHoursSkipsMalformedTokens(t *testing.T) {
	windows := ParseOpenHours("garbage;09:00-18:00;10:00 to 12:00")
	require.Len(t, windows, 1)
	assert.Equal(t, TimeWindow{Start: 540, End: 1080}, windows[0])

	assert.Nil(t, ParseOpenHours(""))
	assert.Nil(t, ParseOpenHours("all day"))
}

func TestParseOpenHoursCrossMidnightClampsToEndOfDay(t *testing.T) {
	windows := ParseOpenHours("22:00-02:00")
	require.Len(t, windows, 1)
	assert.Equal(t, TimeWindow{Start: 1320, End: 1440}, windows[0])
}

func TestEvaluateOpenStatusOpen(t *testing.T) {
	v := EvaluateOpenStatus("10:00", "12:00", "09:00-18:00")
	assert.Equal(t, response_models.OpenStatusOpen, v.Status)
	assert.Empty(t, v.Reason)
	assert.NotEmpty(t, v.Explain)
}

func TestEvaluateOpenStatusClosedRequiresFullContainment(t *testing.T) {
	// The visit starts before the venue opens; partial overlap is closed.
	v := EvaluateOpenStatus("09:00", "11:00", "10:00-17:00")
	assert.Equal(t, response_models.OpenStatusClosed, v.Status)
	assert.Equal(t, response_models.ClosedReasonClosed, v.Reason)
	assert.Contains(t, v.Explain, "outside open windows")
}

func TestEvaluateOpenStatusSecondWindowMatches(t *testing.T) {
	v := EvaluateOpenStatus("14:00", "16:00", "08:00-12:00;13:00-17:00")
	assert.Equal(t, response_models.OpenStatusOpen, v.Status)
}

func TestEvaluateOpenStatusMissingHours(t *testing.T) {
	v := EvaluateOpenStatus("10:00", "12:00", "")
	assert.Equal(t, response_models.OpenStatusUnknown, v.Status)
	assert.Equal(t, response_models.ClosedReasonMissingHours, v.Reason)

	// Hours that parse to nothing behave like no hours at all.
	v = EvaluateOpenStatus("10:00", "12:00", "open daily")
	assert.Equal(t, response_models.OpenStatusUnknown, v.Status)
	assert.Equal(t, response_models.ClosedReasonMissingHours, v.Reason)
}

func TestEvaluateOpenStatusUnparsableActivityTime(t *testing.T) {
	v := EvaluateOpenStatus("morning", "noon", "09:00-18:00")
	assert.Equal(t, response_models.OpenStatusUnknown, v.Status)
	assert.Equal(t, response_models.ClosedReasonUnknownHours, v.Reason)
}
