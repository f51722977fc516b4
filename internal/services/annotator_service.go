package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"wayfarer/internal/models/response_models"
)

// AnnotatorConfig holds the tuning knobs of the repair pass. The score
// weight trades one point of similarity against 1/weight minutes of
// added commute; neither value is load-bearing for correctness.
type AnnotatorConfig struct {
	ScoreWeightPerCommuteMin float64
	MissingLegPenaltyMin     int
	CandidateLimit           int
	ShortlistSize            int
}

func DefaultAnnotatorConfig() AnnotatorConfig {
	return AnnotatorConfig{
		ScoreWeightPerCommuteMin: 0.01,
		MissingLegPenaltyMin:     30,
		CandidateLimit:           6,
		ShortlistSize:            5,
	}
}

// TripAnnotatorInterface runs the validation-and-repair pipeline over a
// draft itinerary. Annotate mutates the trip in place and returns it; it
// never fails — every provider problem degrades to an unknown or
// unchanged annotation.
type TripAnnotatorInterface interface {
	Annotate(ctx context.Context, trip *response_models.TripPlan) *response_models.TripPlan
	Violations(trip *response_models.TripPlan) []response_models.Violation
}

type TripAnnotator struct {
	geo        GeoResolverInterface
	candidates POICandidateSourceInterface
	cfg        AnnotatorConfig
}

func NewTripAnnotator(geo GeoResolverInterface, candidates POICandidateSourceInterface, cfg AnnotatorConfig) TripAnnotatorInterface {
	if cfg.CandidateLimit <= 0 {
		cfg = DefaultAnnotatorConfig()
	}
	return &TripAnnotator{geo: geo, candidates: candidates, cfg: cfg}
}

// Annotate resets all derived fields, then runs two full traversals:
// distances first, open-hours validation plus replacement second. The
// distance pass incidentally warms the resolver's coordinate cache for
// the commute-delta scoring in the second pass.
func (t *TripAnnotator) Annotate(ctx context.Context, trip *response_models.TripPlan) *response_models.TripPlan {
	if trip == nil {
		return nil
	}

	t.annotateDistances(ctx, trip)

	for di := range trip.DailyPlans {
		for ai := range trip.DailyPlans[di].Activities {
			t.validateActivity(ctx, trip, di, ai)
		}
	}
	return trip
}

func (t *TripAnnotator) annotateDistances(ctx context.Context, trip *response_models.TripPlan) {
	cityHint := trip.Destination

	for di := range trip.DailyPlans {
		day := &trip.DailyPlans[di]
		var prevCoord *Coordinate

		for ai := range day.Activities {
			act := &day.Activities[ai]
			act.ResetAnnotations()

			coord, ok := t.geo.Resolve(ctx, act.Location, cityHint)
			if ai == 0 || !ok || prevCoord == nil {
				// First activity of a day never gets a leg; a missing
				// endpoint just skips this one.
				prevCoord = coordOrNil(coord, ok)
				continue
			}

			if leg, found := t.geo.DrivingDistance(ctx, *prevCoord, coord); found {
				km := math.Round(float64(leg.DistanceMeters)/1000.0*100) / 100
				minutes := int(math.Round(float64(leg.DurationSeconds) / 60.0))
				act.DistanceKmFromPrev = &km
				act.DriveTimeMinFromPrev = &minutes
			}
			prevCoord = coordOrNil(coord, ok)
		}
	}
}

func coordOrNil(c Coordinate, ok bool) *Coordinate {
	if !ok {
		return nil
	}
	return &c
}

func (t *TripAnnotator) validateActivity(ctx context.Context, trip *response_models.TripPlan, di, ai int) {
	act := &trip.DailyPlans[di].Activities[ai]

	raw, found := t.geo.OpenHours(ctx, act.Name, trip.Destination)
	if found {
		act.OpenHoursRaw = raw
	}

	verdict := EvaluateOpenStatus(act.StartTime, act.EndTime, raw)
	act.OpenStatus = verdict.Status
	act.ClosedReason = verdict.Reason
	act.OpenHoursExplain = verdict.Explain

	if verdict.Status != response_models.OpenStatusClosed {
		return
	}

	if !t.tryReplace(ctx, trip, di, ai) {
		log.Printf("[ANNOTATE] no open replacement found: activity=%s day=%s",
			act.Name, trip.DailyPlans[di].Date)
	}
}

type scoredCandidate struct {
	cand       POICandidate
	commuteMin int
	score      float64
	open       response_models.OpenStatus
	hoursRaw   string
}

// tryReplace swaps a closed activity for the best-scoring open candidate.
// Scoring is similarity minus a commute penalty; the shortlist of top
// candidates is kept on the activity either way.
func (t *TripAnnotator) tryReplace(ctx context.Context, trip *response_models.TripPlan, di, ai int) bool {
	day := &trip.DailyPlans[di]
	act := &day.Activities[ai]

	query := strings.TrimSpace(fmt.Sprintf("%s %s %s", act.Name, act.Type, trip.Destination))
	cands, err := t.candidates.SearchCandidates(ctx, query, t.cfg.CandidateLimit)
	if err != nil {
		log.Printf("[REPLACE] candidate search failed: query=%q err=%v", query, err)
		return false
	}
	if len(cands) == 0 {
		return false
	}

	var prevLoc, nextLoc string
	if ai > 0 {
		prevLoc = day.Activities[ai-1].Location
	}
	if ai+1 < len(day.Activities) {
		nextLoc = day.Activities[ai+1].Location
	}

	scored := make([]scoredCandidate, 0, len(cands))
	for _, cand := range cands {
		if cand.Name == act.Name {
			continue
		}
		commute := t.commuteDelta(ctx, trip.Destination, cand, prevLoc, nextLoc)
		scored = append(scored, scoredCandidate{
			cand:       cand,
			commuteMin: commute,
			score:      cand.Similarity - t.cfg.ScoreWeightPerCommuteMin*float64(commute),
			open:       response_models.OpenStatusUnknown,
		})
	}
	if len(scored) == 0 {
		return false
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	for i := range scored {
		raw := scored[i].cand.BusinessHours
		if raw == "" {
			raw, _ = t.geo.OpenHours(ctx, scored[i].cand.Name, trip.Destination)
		}
		scored[i].hoursRaw = raw

		// The candidate must be open for the original activity's window.
		verdict := EvaluateOpenStatus(act.StartTime, act.EndTime, raw)
		scored[i].open = verdict.Status
		if verdict.Status != response_models.OpenStatusOpen {
			continue
		}

		t.commitReplacement(act, scored[i], shortlist(scored, t.cfg.ShortlistSize), verdict)
		return true
	}

	// Nothing open; keep the shortlist around for debugging.
	act.ReplacementCandidates = shortlist(scored, t.cfg.ShortlistSize)
	return false
}

// commuteDelta estimates the added driving minutes of visiting the
// candidate between the activity's surviving neighbors. An unresolvable
// leg contributes a flat penalty instead of failing the score.
func (t *TripAnnotator) commuteDelta(ctx context.Context, cityHint string, cand POICandidate, prevLoc, nextLoc string) int {
	candCoord, candOK := t.geo.Resolve(ctx, cand.Address, cityHint)

	legs := []struct {
		neighbor string
		inbound  bool
	}{
		{prevLoc, true},  // previous activity -> candidate
		{nextLoc, false}, // candidate -> next activity
	}

	total := 0
	for _, l := range legs {
		if l.neighbor == "" {
			continue
		}
		if !candOK {
			total += t.cfg.MissingLegPenaltyMin
			continue
		}
		nCoord, ok := t.geo.Resolve(ctx, l.neighbor, cityHint)
		if !ok {
			total += t.cfg.MissingLegPenaltyMin
			continue
		}
		origin, dest := candCoord, nCoord
		if l.inbound {
			origin, dest = nCoord, candCoord
		}
		leg, found := t.geo.DrivingDistance(ctx, origin, dest)
		if !found {
			total += t.cfg.MissingLegPenaltyMin
			continue
		}
		total += int(math.Round(float64(leg.DurationSeconds) / 60.0))
	}
	return total
}

func (t *TripAnnotator) commitReplacement(act *response_models.Activity, chosen scoredCandidate, list []response_models.ReplacementCandidate, verdict OpenVerdict) {
	originalName := act.Name
	originalHours := act.OpenHoursRaw

	act.Name = chosen.cand.Name
	act.Location = chosen.cand.Address
	act.Description = truncateDescription(chosen.cand.Description, 160)

	act.OpenStatus = response_models.OpenStatusOpen
	act.ClosedReason = response_models.ClosedReasonReplaced
	act.OpenHoursRaw = chosen.hoursRaw
	act.OpenHoursExplain = verdict.Explain
	act.ReplacedFrom = originalName
	act.ReplacedFromOpenHours = originalHours
	act.ReplacementReason = fmt.Sprintf("similarity %.2f, commute delta %d min",
		chosen.cand.Similarity, chosen.commuteMin)
	delta := chosen.commuteMin
	act.ReplacementCommuteDelta = &delta
	act.ReplacementCandidates = list

	note := fmt.Sprintf("Note: %q was closed for the scheduled time and was replaced automatically.", originalName)
	if act.Tips == "" {
		act.Tips = note
	} else if !strings.Contains(act.Tips, note) {
		act.Tips = act.Tips + " " + note
	}

	log.Printf("[REPLACE] committed: %s -> %s (%s)", originalName, act.Name, act.ReplacementReason)
}

func shortlist(scored []scoredCandidate, size int) []response_models.ReplacementCandidate {
	if size <= 0 || size > len(scored) {
		size = len(scored)
	}
	out := make([]response_models.ReplacementCandidate, 0, size)
	for _, s := range scored[:size] {
		out = append(out, response_models.ReplacementCandidate{
			Name:            s.cand.Name,
			Similarity:      s.cand.Similarity,
			Score:           s.score,
			CommuteDeltaMin: s.commuteMin,
			Open:            s.open,
			OpenHoursRaw:    s.hoursRaw,
		})
	}
	return out
}

// truncateDescription keeps the long-form text after the document's
// detail marker when present, capped at maxRunes.
func truncateDescription(desc string, maxRunes int) string {
	if idx := strings.Index(desc, DetailIntroMarker); idx >= 0 {
		desc = desc[idx+len(DetailIntroMarker):]
	}
	desc = strings.TrimSpace(desc)
	runes := []rune(desc)
	if len(runes) <= maxRunes {
		return desc
	}
	return string(runes[:maxRunes]) + "…"
}

// Violations lists activities that stayed closed after the repair pass.
func (t *TripAnnotator) Violations(trip *response_models.TripPlan) []response_models.Violation {
	violations := []response_models.Violation{}
	if trip == nil {
		return violations
	}
	for _, day := range trip.DailyPlans {
		for _, act := range day.Activities {
			if act.OpenStatus == response_models.OpenStatusClosed {
				violations = append(violations, response_models.Violation{
					Type: "closed",
					Day:  day.Date,
					Name: act.Name,
				})
			}
		}
	}
	return violations
}
