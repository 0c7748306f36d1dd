package guess

import "time"

// Guess is one user's score prediction for one game. Score fields are nil
// until the user fills them in; a guess with either score missing is not
// scoreable. The penalty-winner flags are the user's explicit shootout call
// for knockout games predicted as a regulation tie.
type Guess struct {
	TournamentID      string
	GameID            string
	UserID            string
	HomeScore         *int
	AwayScore         *int
	HomePenaltyWinner *bool
	AwayPenaltyWinner *bool
	UpdatedAt         time.Time
}

// HasUsableScore reports whether the guess carries both regulation scores.
func (g Guess) HasUsableScore() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// TournamentPicks holds a user's tournament-outcome predictions.
type TournamentPicks struct {
	TournamentID    string
	UserID          string
	ChampionTeamID  string
	RunnerUpTeamID  string
	TopScorerPlayer string
	UpdatedAt       time.Time
}

func (p TournamentPicks) IsComplete() bool {
	return p.ChampionTeamID != "" && p.RunnerUpTeamID != "" && p.TopScorerPlayer != ""
}

// GroupOrderPick is a user's predicted finishing order for one group,
// first to last.
type GroupOrderPick struct {
	TournamentID   string
	UserID         string
	Group          string
	OrderedTeamIDs []string
	UpdatedAt      time.Time
}

// Completeness summarizes how much of the prode a user has filled in.
type Completeness struct {
	TournamentID    string
	UserID          string
	TotalGames      int
	PredictedGames  int
	TotalGroups     int
	PredictedGroups int
	PicksComplete   bool
	Percent         float64
}
