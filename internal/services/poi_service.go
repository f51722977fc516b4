package services

import (
	"context"
	"log"
	"strings"

	"github.com/lib/pq"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

type POIServiceInterface interface {
	GetPOIByID(ctx context.Context, id string) (*response_models.POI, error)
	SearchPois(ctx context.Context, query string, maxResults int) ([]response_models.POI, error)
	CreatePoi(ctx context.Context, req request_models.CreatePoiRequest) (*response_models.POI, error)
	ReindexEmbeddings(ctx context.Context) (int, error)
}

type POIService struct {
	poiRepo       repositories.POIRepository
	embeddingRepo repositories.IPoiEmbeddingRepository
	embedder      utils.EmbeddingClientInterface
	candidates    POICandidateSourceInterface
}

func NewPOIService(
	poiRepo repositories.POIRepository,
	embeddingRepo repositories.IPoiEmbeddingRepository,
	embedder utils.EmbeddingClientInterface,
	candidates POICandidateSourceInterface,
) POIServiceInterface {
	return &POIService{
		poiRepo:       poiRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
		candidates:    candidates,
	}
}

func (s *POIService) GetPOIByID(ctx context.Context, id string) (*response_models.POI, error) {
	if strings.TrimSpace(id) == "" {
		return nil, utils.ErrInvalidInput
	}
	poi, err := s.poiRepo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if poi == nil {
		return nil, utils.ErrPOINotFound
	}
	resp := toPoiResponse(poi)
	return &resp, nil
}

func (s *POIService) SearchPois(ctx context.Context, query string, maxResults int) ([]response_models.POI, error) {
	cands, err := s.candidates.SearchCandidates(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	results := make([]response_models.POI, 0, len(cands))
	for _, c := range cands {
		results = append(results, response_models.POI{
			ID:            c.ID,
			Name:          c.Name,
			Address:       c.Address,
			Description:   c.Description,
			BusinessHours: c.BusinessHours,
			Tags:          c.Tags,
			Similarity:    c.Similarity,
		})
	}
	return results, nil
}

// CreatePoi inserts the catalog row and its embedding in one call. An
// embedding failure does not roll back the row; reindex covers it later.
func (s *POIService) CreatePoi(ctx context.Context, req request_models.CreatePoiRequest) (*response_models.POI, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, utils.ErrInvalidInput
	}

	poi := &db_models.POI{
		Name:          strings.TrimSpace(req.Name),
		Type:          req.Type,
		Address:       req.Address,
		Description:   req.Description,
		Rating:        req.Rating,
		TicketPrice:   req.TicketPrice,
		BusinessHours: req.BusinessHours,
		Tags:          pq.StringArray(req.Tags),
		Longitude:     req.Longitude,
		Latitude:      req.Latitude,
	}
	if err := s.poiRepo.Create(ctx, poi); err != nil {
		log.Printf("[POI] create failed: name=%s err=%v", req.Name, err)
		return nil, utils.ErrDatabaseError
	}

	if err := s.indexPoi(ctx, poi); err != nil {
		log.Printf("[POI] embedding deferred to reindex: name=%s err=%v", poi.Name, err)
	}

	resp := toPoiResponse(poi)
	return &resp, nil
}

// ReindexEmbeddings drops and rebuilds the vector index from the catalog.
// Returns the number of rows indexed.
func (s *POIService) ReindexEmbeddings(ctx context.Context) (int, error) {
	if err := s.embeddingRepo.DeleteAll(ctx); err != nil {
		return 0, utils.ErrDatabaseError
	}

	indexed := 0
	const pageSize = 100
	for page := 1; ; page++ {
		pois, err := s.poiRepo.List(ctx, page, pageSize)
		if err != nil {
			return indexed, utils.ErrDatabaseError
		}
		if len(pois) == 0 {
			break
		}
		for i := range pois {
			if err := s.indexPoi(ctx, &pois[i]); err != nil {
				log.Printf("[POI] reindex skipped row: name=%s err=%v", pois[i].Name, err)
				continue
			}
			indexed++
		}
		if len(pois) < pageSize {
			break
		}
	}

	log.Printf("[POI] reindex complete: rows=%d", indexed)
	return indexed, nil
}

func (s *POIService) indexPoi(ctx context.Context, poi *db_models.POI) error {
	document := BuildPoiDocument(poi)
	vector, err := s.embedder.GetEmbedding(ctx, document)
	if err != nil {
		return err
	}
	return s.embeddingRepo.Upsert(ctx, &db_models.PoiEmbedding{
		PoiID:         poi.ID.String(),
		Name:          poi.Name,
		Document:      document,
		BusinessHours: poi.BusinessHours,
		Tags:          poi.Tags,
		Embedding:     vector,
	})
}

func toPoiResponse(poi *db_models.POI) response_models.POI {
	return response_models.POI{
		ID:            poi.ID.String(),
		Name:          poi.Name,
		Type:          poi.Type,
		Address:       poi.Address,
		Description:   poi.Description,
		Rating:        poi.Rating,
		TicketPrice:   poi.TicketPrice,
		BusinessHours: poi.BusinessHours,
		Tags:          poi.Tags,
		Longitude:     poi.Longitude,
		Latitude:      poi.Latitude,
	}
}
