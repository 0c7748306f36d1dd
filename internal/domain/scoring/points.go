package scoring

import (
	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
)

const (
	// PointsExact is awarded for guessing the exact scoreline.
	PointsExact = 2
	// PointsOutcome is awarded for guessing the right outcome with a
	// different scoreline, including the tie-to-decisive knockout cases.
	PointsOutcome = 1
)

// Side identifies which team wins a penalty shootout.
type Side int

const (
	SideNone Side = iota
	SideHome
	SideAway
)

// ScoreForGame awards 0, 1 or 2 points to one guess against one official
// result. It never fails: a game without a usable result, or a guess without
// both scores filled in, is worth 0 points.
//
// For knockout games that ended in a regulation tie, the shootout winner the
// user predicted must agree with the actual one. A guess can state that
// winner two ways: an explicit penalty-winner flag, or implicitly by
// predicting a decisive scoreline for that side. Both are normalized to a
// single predicted side before comparing; explicit flags win over the
// scoreline implication.
func ScoreForGame(g game.Game, ps guess.Guess) int {
	if !g.HasUsableResult() || !ps.HasUsableScore() {
		return 0
	}

	resultHome, resultAway := *g.HomeScore, *g.AwayScore
	guessHome, guessAway := *ps.HomeScore, *ps.AwayScore
	knockout := g.IsKnockout()

	// Shootout outcome is only required for a knockout regulation tie. A
	// knockout tie without penalty scores recorded yields no required winner.
	actualWinner := SideNone
	if knockout && resultHome == resultAway {
		actualWinner = penaltyWinner(g.HomePenaltyScore, g.AwayPenaltyScore)
	}

	predictedWinner := SideNone
	if knockout {
		predictedWinner = predictedPenaltyWinner(ps)
	}

	if guessHome == resultHome && guessAway == resultAway {
		if actualWinner != SideNone && predictedWinner != actualWinner {
			return 0
		}
		return PointsExact
	}

	if sign(resultHome-resultAway) == sign(guessHome-guessAway) {
		if actualWinner != SideNone && predictedWinner != actualWinner {
			return 0
		}
		return PointsOutcome
	}

	if knockout {
		// Regulation tie settled on penalties, guess backed the right side
		// with a decisive scoreline or an explicit flag.
		if actualWinner != SideNone && predictedWinner == actualWinner {
			return PointsOutcome
		}
		// Decisive result, guess predicted a tie but flagged the side that
		// won outright.
		if actualWinner == SideNone && resultHome != resultAway && guessHome == guessAway {
			if predictedWinner == resultWinner(resultHome, resultAway) {
				return PointsOutcome
			}
		}
	}

	return 0
}

// penaltyWinner derives the shootout winner from recorded penalty scores.
// Strictly greater wins; absent or equal scores mean no winner is required.
func penaltyWinner(home, away *int) Side {
	if home == nil || away == nil {
		return SideNone
	}
	switch {
	case *home > *away:
		return SideHome
	case *away > *home:
		return SideAway
	default:
		return SideNone
	}
}

// predictedPenaltyWinner normalizes the two ways a guess can name a shootout
// winner into one side.
func predictedPenaltyWinner(ps guess.Guess) Side {
	switch {
	case ps.HomePenaltyWinner != nil && *ps.HomePenaltyWinner:
		return SideHome
	case ps.AwayPenaltyWinner != nil && *ps.AwayPenaltyWinner:
		return SideAway
	case *ps.HomeScore > *ps.AwayScore:
		return SideHome
	case *ps.AwayScore > *ps.HomeScore:
		return SideAway
	default:
		return SideNone
	}
}

func resultWinner(home, away int) Side {
	switch {
	case home > away:
		return SideHome
	case away > home:
		return SideAway
	default:
		return SideNone
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
