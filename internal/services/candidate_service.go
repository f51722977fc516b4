package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

// POICandidate is one ranked result of a semantic catalog search.
type POICandidate struct {
	ID            string
	Name          string
	Address       string
	Description   string
	Tags          []string
	BusinessHours string
	Similarity    float64
}

// POICandidateSourceInterface answers "venues like this" queries; the
// replacement engine is its main consumer.
type POICandidateSourceInterface interface {
	SearchCandidates(ctx context.Context, query string, maxResults int) ([]POICandidate, error)
}

type CandidateService struct {
	embedder      utils.EmbeddingClientInterface
	embeddingRepo repositories.IPoiEmbeddingRepository
	poiRepo       repositories.POIRepository
}

func NewCandidateService(
	embedder utils.EmbeddingClientInterface,
	embeddingRepo repositories.IPoiEmbeddingRepository,
	poiRepo repositories.POIRepository,
) POICandidateSourceInterface {
	return &CandidateService{
		embedder:      embedder,
		embeddingRepo: embeddingRepo,
		poiRepo:       poiRepo,
	}
}

func (s *CandidateService) SearchCandidates(ctx context.Context, query string, maxResults int) ([]POICandidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, utils.ErrInvalidInput
	}

	vector, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		log.Printf("[CANDIDATES] embedding failed: query=%q err=%v", query, err)
		return nil, utils.ErrEmbeddingFailure
	}

	matches, err := s.embeddingRepo.SearchByVector(ctx, vector, maxResults)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(matches))
	similarity := make(map[string]float64, len(matches))
	for _, m := range matches {
		ids = append(ids, m.PoiID)
		similarity[m.PoiID] = m.Similarity
	}

	pois, err := s.poiRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	candidates := make([]POICandidate, 0, len(pois))
	for _, poi := range pois {
		candidates = append(candidates, POICandidate{
			ID:            poi.ID.String(),
			Name:          poi.Name,
			Address:       poi.Address,
			Description:   BuildPoiDocument(&poi),
			Tags:          poi.Tags,
			BusinessHours: poi.BusinessHours,
			Similarity:    similarity[poi.ID.String()],
		})
	}

	log.Printf("[CANDIDATES] query=%q matched=%d", query, len(candidates))
	return candidates, nil
}

// DetailIntroMarker separates the summary header of a POI document from
// its long-form description. Description truncation prefers the text that
// follows it.
const DetailIntroMarker = "Detailed introduction:"

// BuildPoiDocument renders a catalog row into the text that gets embedded
// and returned as a candidate description.
func BuildPoiDocument(poi *db_models.POI) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", poi.Name, poi.Type)
	fmt.Fprintf(&b, "Address: %s\n", poi.Address)
	if poi.Rating > 0 {
		fmt.Fprintf(&b, "Rating: %.1f\n", poi.Rating)
	}
	if poi.TicketPrice > 0 {
		fmt.Fprintf(&b, "Ticket: %d\n", poi.TicketPrice)
	}
	if poi.BusinessHours != "" {
		fmt.Fprintf(&b, "Business hours: %s\n", poi.BusinessHours)
	}
	if len(poi.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(poi.Tags, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n%s", DetailIntroMarker, poi.Description)
	return b.String()
}
