package boost

import (
	"errors"
	"fmt"
	"time"

	"github.com/prodehub/prode-api/internal/domain/game"
)

var (
	ErrBoostLimitReached  = errors.New("boost limit reached")
	ErrGameAlreadyBoosted = errors.New("game already boosted")
	ErrGameAlreadyStarted = errors.New("game already started")
)

// Rules stores boost allocation parameters.
type Rules struct {
	MaxPerUser int
	Multiplier int
}

func DefaultRules() Rules {
	return Rules{
		MaxPerUser: 3,
		Multiplier: 2,
	}
}

// ValidatePlacement checks that a user may boost the given game on top of
// the boosts they already hold in the tournament.
func ValidatePlacement(existing []Boost, target game.Game, now time.Time, rules Rules) error {
	if target.HasStarted(now) {
		return fmt.Errorf("%w: game=%s", ErrGameAlreadyStarted, target.ID)
	}
	if len(existing) >= rules.MaxPerUser {
		return fmt.Errorf("%w: max=%d", ErrBoostLimitReached, rules.MaxPerUser)
	}
	for _, b := range existing {
		if b.GameID == target.ID {
			return fmt.Errorf("%w: game=%s", ErrGameAlreadyBoosted, target.ID)
		}
	}
	return nil
}

// MultiplierFor returns the points multiplier for a game given the set of
// boosted game ids. Unboosted games multiply by 1.
func MultiplierFor(gameID string, boosted map[string]struct{}, rules Rules) int {
	if _, ok := boosted[gameID]; ok {
		return rules.Multiplier
	}
	return 1
}
