package scoring

import (
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/domain/tournament"
)

const (
	BonusChampion  = 10
	BonusRunnerUp  = 5
	BonusTopScorer = 5

	// Group-order bonuses: one point per team that qualified at all, one
	// extra point when it was placed in the exact slot.
	BonusQualifier = 1
	BonusExactSlot = 1

	// QualifyCount is how many teams advance from each group.
	QualifyCount = 2
)

// BonusForPicks awards tournament-outcome bonus points. Outcome fields that
// are still empty award nothing, so partial outcomes can be scored as the
// tournament progresses.
func BonusForPicks(outcome tournament.Outcome, picks guess.TournamentPicks) int {
	total := 0
	if outcome.ChampionTeamID != "" && picks.ChampionTeamID == outcome.ChampionTeamID {
		total += BonusChampion
	}
	if outcome.RunnerUpTeamID != "" && picks.RunnerUpTeamID == outcome.RunnerUpTeamID {
		total += BonusRunnerUp
	}
	if outcome.TopScorerPlayer != "" && picks.TopScorerPlayer == outcome.TopScorerPlayer {
		total += BonusTopScorer
	}
	return total
}

// BonusForGroupOrder awards qualification-order bonus points for one group.
// Only the first QualifyCount slots of each side are considered.
func BonusForGroupOrder(actual tournament.GroupResult, pick guess.GroupOrderPick) int {
	if len(actual.OrderedTeamIDs) == 0 || len(pick.OrderedTeamIDs) == 0 {
		return 0
	}

	qualified := actual.OrderedTeamIDs
	if len(qualified) > QualifyCount {
		qualified = qualified[:QualifyCount]
	}
	picked := pick.OrderedTeamIDs
	if len(picked) > QualifyCount {
		picked = picked[:QualifyCount]
	}

	qualifiedSet := make(map[string]int, len(qualified))
	for slot, teamID := range qualified {
		qualifiedSet[teamID] = slot
	}

	total := 0
	for slot, teamID := range picked {
		actualSlot, ok := qualifiedSet[teamID]
		if !ok {
			continue
		}
		total += BonusQualifier
		if actualSlot == slot {
			total += BonusExactSlot
		}
	}
	return total
}
