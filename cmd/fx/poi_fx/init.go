package poi_fx

import (
	"context"
	"log"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(
	providePoisRepo, provideEmbeddingRepo, provideEmbeddingClient,
	provideCandidateSource, providePoisService)

func providePoisRepo(db *gorm.DB) repositories.POIRepository {
	return repositories.NewPOIRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.IPoiEmbeddingRepository {
	return repositories.NewPoiEmbeddingRepository(db)
}

// provideEmbeddingClient picks the embedding backend from EMBEDDING_PROVIDER:
// "gemini" or "openai" (default; also covers DashScope-compatible endpoints
// via OPENAI_BASE_URL).
func provideEmbeddingClient() utils.EmbeddingClientInterface {
	switch utils.EnvOrDefault("EMBEDDING_PROVIDER", "openai") {
	case "gemini":
		client, err := utils.NewGeminiClient(
			context.Background(),
			os.Getenv("GEMINI_API_KEY"),
			os.Getenv("GEMINI_EMBED_MODEL"),
			os.Getenv("GEMINI_GEN_MODEL"),
		)
		if err != nil {
			log.Fatalf("Failed to init Gemini client: %v", err)
		}
		return client
	default:
		return utils.NewOpenAIClient(
			os.Getenv("OPENAI_API_KEY"),
			os.Getenv("OPENAI_BASE_URL"),
			os.Getenv("OPENAI_EMBED_MODEL"),
			os.Getenv("OPENAI_CHAT_MODEL"),
		)
	}
}

func provideCandidateSource(
	embedder utils.EmbeddingClientInterface,
	embeddingRepo repositories.IPoiEmbeddingRepository,
	poiRepo repositories.POIRepository,
) services.POICandidateSourceInterface {
	return services.NewCandidateService(embedder, embeddingRepo, poiRepo)
}

func providePoisService(
	poiRepo repositories.POIRepository,
	embeddingRepo repositories.IPoiEmbeddingRepository,
	embedder utils.EmbeddingClientInterface,
	candidates services.POICandidateSourceInterface,
) services.POIServiceInterface {
	return services.NewPOIService(poiRepo, embeddingRepo, embedder, candidates)
}
