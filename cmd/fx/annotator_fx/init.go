package annotator_fx

import (
	"go.uber.org/fx"

	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(
	provideAnnotatorConfig, provideAnnotator)

func provideAnnotatorConfig() services.AnnotatorConfig {
	cfg := services.DefaultAnnotatorConfig()
	cfg.ScoreWeightPerCommuteMin = utils.EnvFloatOrDefault("REPLACE_SCORE_WEIGHT", cfg.ScoreWeightPerCommuteMin)
	cfg.MissingLegPenaltyMin = utils.EnvIntOrDefault("REPLACE_MISSING_LEG_PENALTY_MIN", cfg.MissingLegPenaltyMin)
	cfg.CandidateLimit = utils.EnvIntOrDefault("REPLACE_CANDIDATE_LIMIT", cfg.CandidateLimit)
	cfg.ShortlistSize = utils.EnvIntOrDefault("REPLACE_SHORTLIST_SIZE", cfg.ShortlistSize)
	return cfg
}

func provideAnnotator(
	geo services.GeoResolverInterface,
	candidates services.POICandidateSourceInterface,
	cfg services.AnnotatorConfig,
) services.TripAnnotatorInterface {
	return services.NewTripAnnotator(geo, candidates, cfg)
}
