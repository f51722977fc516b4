package services

import (
	"fmt"
	"strconv"
	"strings"

	"wayfarer/internal/models/response_models"
)

// TimeWindow is a minute-of-day interval [Start, End).
type TimeWindow struct {
	Start int
	End   int
}

const minutesPerDay = 24 * 60

func parseHHMM(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, false
	}
	minute := h*60 + m
	if minute > minutesPerDay {
		return 0, false
	}
	return minute, true
}

// ParseActivityWindow converts an activity's HH:MM start/end pair into a
// minute interval. Malformed or inverted input yields ok=false.
func ParseActivityWindow(startHHMM, endHHMM string) (TimeWindow, bool) {
	start, ok1 := parseHHMM(startHHMM)
	end, ok2 := parseHHMM(endHHMM)
	if !ok1 || !ok2 || end <= start {
		return TimeWindow{}, false
	}
	return TimeWindow{Start: start, End: end}, true
}

// ParseOpenHours splits a raw business-hours string into open windows.
// Tokens are separated by ";", full-width "、" or "/"; each token must be
// HH:MM-HH:MM with exactly one dash. Malformed tokens are skipped.
// Cross-midnight ranges are clamped to end-of-day rather than wrapped.
func ParseOpenHours(raw string) []TimeWindow {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	normalized := strings.NewReplacer("、", ";", "/", ";").Replace(raw)

	var windows []TimeWindow
	for _, token := range strings.Split(normalized, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		parts := strings.Split(token, "-")
		if len(parts) != 2 {
			continue
		}
		start, ok1 := parseHHMM(parts[0])
		end, ok2 := parseHHMM(parts[1])
		if !ok1 || !ok2 {
			continue
		}
		if end <= start {
			end = minutesPerDay
		}
		windows = append(windows, TimeWindow{Start: start, End: end})
	}
	return windows
}

// OpenVerdict is the outcome of checking one activity against one raw
// business-hours string.
type OpenVerdict struct {
	Status  response_models.OpenStatus
	Reason  response_models.ClosedReason
	Explain string
}

// EvaluateOpenStatus runs the per-activity state machine:
// unparsable activity time -> unknown/unknown_hours; no parsable venue
// hours -> unknown/missing_hours; interval contained in an open window ->
// open; otherwise closed.
func EvaluateOpenStatus(startHHMM, endHHMM, rawHours string) OpenVerdict {
	window, ok := ParseActivityWindow(startHHMM, endHHMM)
	if !ok {
		return OpenVerdict{
			Status:  response_models.OpenStatusUnknown,
			Reason:  response_models.ClosedReasonUnknownHours,
			Explain: fmt.Sprintf("activity time %s-%s could not be parsed", startHHMM, endHHMM),
		}
	}

	open := ParseOpenHours(rawHours)
	if len(open) == 0 {
		return OpenVerdict{
			Status:  response_models.OpenStatusUnknown,
			Reason:  response_models.ClosedReasonMissingHours,
			Explain: "no business hours available for this venue",
		}
	}

	for _, w := range open {
		if window.Start >= w.Start && window.End <= w.End {
			return OpenVerdict{
				Status: response_models.OpenStatusOpen,
				Explain: fmt.Sprintf("scheduled %s-%s falls within open window %s",
					startHHMM, endHHMM, formatWindow(w)),
			}
		}
	}

	return OpenVerdict{
		Status: response_models.OpenStatusClosed,
		Reason: response_models.ClosedReasonClosed,
		Explain: fmt.Sprintf("scheduled %s-%s is outside open windows %s",
			startHHMM, endHHMM, formatWindows(open)),
	}
}

func formatWindow(w TimeWindow) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start/60, w.Start%60, w.End/60, w.End%60)
}

func formatWindows(windows []TimeWindow) string {
	parts := make([]string, 0, len(windows))
	for _, w := range windows {
		parts = append(parts, formatWindow(w))
	}
	return strings.Join(parts, ";")
}
