package game

import (
	"github.com/rs/zerolog"

	"github.com/tatianab/text-rpg/internal/models"
)

// Responses are trusted as returned. Values outside their documented ranges
// are only logged; HP and SP are clamped by the reducer either way.

func warnInit(logger zerolog.Logger, resp *models.InitResponse) {
	if resp.HPMax < 10 || resp.HPMax > 100 {
		logger.Warn().Int("hp_max", resp.HPMax).Msg("hpMax outside 10-100")
	}
	if resp.SPMax < 10 || resp.SPMax > 100 {
		logger.Warn().Int("sp_max", resp.SPMax).Msg("spMax outside 10-100")
	}
	for _, st := range resp.Stats {
		if st.Value < 1 || st.Value > models.StatMax {
			logger.Warn().Str("stat", st.Name).Int("value", st.Value).Msg("stat value outside 1-10")
		}
	}
	if len(resp.Choices) != 3 {
		logger.Warn().Int("choices", len(resp.Choices)).Msg("expected 3 choices")
	}
	warnRelationships(logger, resp.Relationships)
}

func warnTurn(logger zerolog.Logger, resp *models.TurnResponse) {
	if len(resp.Choices) != 3 && !resp.IsGameOver {
		logger.Warn().Int("choices", len(resp.Choices)).Msg("expected 3 choices")
	}
	warnRelationships(logger, resp.Relationships)
}

func warnRelationships(logger zerolog.Logger, rels []models.Relationship) {
	seen := make(map[string]bool, len(rels))
	for _, r := range rels {
		if r.RelationshipScore < 0 || r.RelationshipScore > 100 {
			logger.Warn().Str("npc", r.ID).Int("score", r.RelationshipScore).Msg("relationship score outside 0-100")
		}
		if seen[r.ID] {
			logger.Warn().Str("npc", r.ID).Msg("duplicate relationship id")
		}
		seen[r.ID] = true
	}
}
