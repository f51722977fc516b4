package planner_fx

import (
	"context"
	"log"
	"os"

	"go.uber.org/fx"

	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(
	providePlanGenerator, providePlannerService)

// providePlanGenerator picks the itinerary LLM from PLANNER_PROVIDER:
// "gemini" or "openai" (default).
func providePlanGenerator() utils.PlanGeneratorInterface {
	switch utils.EnvOrDefault("PLANNER_PROVIDER", "openai") {
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

func providePlannerService(
	llm utils.PlanGeneratorInterface,
	candidates services.POICandidateSourceInterface,
) services.PlannerServiceInterface {
	return services.NewPlannerService(llm, candidates)
}
