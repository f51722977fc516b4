package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/db_models"
	"wayfarer/pkg/utils"
)

type embedderMock struct {
	GetEmbeddingFunc func(ctx context.Context, text string) (pgvector.Vector, error)
}

var _ utils.EmbeddingClientInterface = (*embedderMock)(nil)

func (m *embedderMock) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	if m.GetEmbeddingFunc == nil {
		return pgvector.NewVector(make([]float32, utils.EmbeddingDimensions)), nil
	}
	return m.GetEmbeddingFunc(ctx, text)
}

type embeddingRepoMock struct {
	SearchByVectorFunc func(ctx context.Context, vector pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error)
	UpsertFunc         func(ctx context.Context, embedding *db_models.PoiEmbedding) error
	DeleteAllFunc      func(ctx context.Context) error
}

func (m *embeddingRepoMock) SearchByVector(ctx context.Context, vector pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error) {
	if m.SearchByVectorFunc == nil {
		return nil, nil
	}
	return m.SearchByVectorFunc(ctx, vector, limit)
}

func (m *embeddingRepoMock) Upsert(ctx context.Context, embedding *db_models.PoiEmbedding) error {
	if m.UpsertFunc == nil {
		return nil
	}
	return m.UpsertFunc(ctx, embedding)
}

func (m *embeddingRepoMock) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFunc == nil {
		return nil
	}
	return m.DeleteAllFunc(ctx)
}

type listingPoiRepoMock struct {
	poiRepoMock
	ListByIDsFunc func(ctx context.Context, ids []string) ([]db_models.POI, error)
}

func (m *listingPoiRepoMock) ListByIDs(ctx context.Context, ids []string) ([]db_models.POI, error) {
	return m.ListByIDsFunc(ctx, ids)
}

func TestSearchCandidatesJoinsCatalogInRankOrder(t *testing.T) {
	idA, idB := uuid.New(), uuid.New()

	embeddingRepo := &embeddingRepoMock{
		SearchByVectorFunc: func(_ context.Context, _ pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error) {
			assert.Equal(t, 6, limit)
			return []db_models.PoiEmbedding{
				{PoiID: idB.String(), Similarity: 0.91},
				{PoiID: idA.String(), Similarity: 0.83},
			}, nil
		},
	}
	poiRepo := &listingPoiRepoMock{
		ListByIDsFunc: func(_ context.Context, ids []string) ([]db_models.POI, error) {
			require.Equal(t, []string{idB.String(), idA.String()}, ids)
			return []db_models.POI{
				{BaseModel: db_models.BaseModel{ID: idB}, Name: "Temple B", Address: "B St", BusinessHours: "09:00-17:00"},
				{BaseModel: db_models.BaseModel{ID: idA}, Name: "Temple A", Address: "A St"},
			}, nil
		},
	}

	source := NewCandidateService(&embedderMock{}, embeddingRepo, poiRepo)
	cands, err := source.SearchCandidates(context.Background(), "quiet temple", 6)
	require.NoError(t, err)
	require.Len(t, cands, 2)

	assert.Equal(t, "Temple B", cands[0].Name)
	assert.Equal(t, 0.91, cands[0].Similarity)
	assert.Equal(t, "09:00-17:00", cands[0].BusinessHours)
	assert.Contains(t, cands[0].Description, "Temple B")
	assert.Contains(t, cands[0].Description, DetailIntroMarker)
	assert.Equal(t, "Temple A", cands[1].Name)
}

func TestSearchCandidatesEmbeddingFailure(t *testing.T) {
	embedder := &embedderMock{
		GetEmbeddingFunc: func(_ context.Context, _ string) (pgvector.Vector, error) {
			return pgvector.Vector{}, errors.New("provider down")
		},
	}
	source := NewCandidateService(embedder, &embeddingRepoMock{}, &listingPoiRepoMock{})

	_, err := source.SearchCandidates(context.Background(), "temple", 6)
	assert.ErrorIs(t, err, utils.ErrEmbeddingFailure)
}

func TestSearchCandidatesEmptyQuery(t *testing.T) {
	source := NewCandidateService(&embedderMock{}, &embeddingRepoMock{}, &listingPoiRepoMock{})

	_, err := source.SearchCandidates(context.Background(), "  ", 6)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestSearchCandidatesNoMatches(t *testing.T) {
	source := NewCandidateService(&embedderMock{}, &embeddingRepoMock{}, &listingPoiRepoMock{})

	cands, err := source.SearchCandidates(context.Background(), "temple", 6)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestBuildPoiDocument(t *testing.T) {
	poi := &db_models.POI{
		Name:          "Palace Museum",
		Type:          "culture",
		Address:       "4 Jingshan Front St",
		Rating:        4.8,
		TicketPrice:   60,
		BusinessHours: "08:30-17:00",
		Tags:          []string{"history", "unesco"},
		Description:   "Imperial palace of the Ming and Qing dynasties.",
	}
	doc := BuildPoiDocument(poi)
	assert.Contains(t, doc, "Palace Museum - culture")
	assert.Contains(t, doc, "Business hours: 08:30-17:00")
	assert.Contains(t, doc, "Tags: history, unesco")
	assert.Contains(t, doc, DetailIntroMarker+"\nImperial palace")
}
