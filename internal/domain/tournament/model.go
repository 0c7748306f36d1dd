package tournament

import "time"

const (
	StatusUpcoming = "UPCOMING"
	StatusRunning  = "RUNNING"
	StatusFinished = "FINISHED"
)

// Tournament is one edition of a competition the prode runs on.
type Tournament struct {
	ID        string
	Name      string
	Season    string
	Status    string
	FeedRefID int64
	StartsAt  time.Time
	EndsAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Team struct {
	ID           string
	TournamentID string
	Name         string
	Short        string
	Group        string
}

// Outcome holds the official tournament-level results once decided.
// Empty fields mean the outcome is not known yet.
type Outcome struct {
	TournamentID    string
	ChampionTeamID  string
	RunnerUpTeamID  string
	TopScorerPlayer string
	UpdatedAt       time.Time
}

// GroupResult is the official finishing order of one group, first to last.
type GroupResult struct {
	TournamentID   string
	Group          string
	OrderedTeamIDs []string
}
