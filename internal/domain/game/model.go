package game

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

const (
	StageGroup        = "GROUP"
	StageRoundOf32    = "ROUND_OF_32"
	StageRoundOf16    = "ROUND_OF_16"
	StageQuarterFinal = "QUARTER_FINAL"
	StageSemiFinal    = "SEMI_FINAL"
	StageThirdPlace   = "THIRD_PLACE"
	StageFinal        = "FINAL"
)

// Game represents one scheduled match of a tournament together with its
// official result once played. Score fields are nil until known; penalty
// scores are only populated for knockout games decided in a shootout.
type Game struct {
	ID               string
	TournamentID     string
	Stage            string
	Group            string
	HomeTeamID       string
	AwayTeamID       string
	HomeTeam         string
	AwayTeam         string
	KickoffAt        time.Time
	Venue            string
	Status           string
	HomeScore        *int
	AwayScore        *int
	HomePenaltyScore *int
	AwayPenaltyScore *int
	FeedRefID        int64
	FinishedAt       *time.Time
}

// IsKnockout reports whether tie-break (penalty shootout) rules apply.
// Any stage other than GROUP is treated as knockout-like.
func (g Game) IsKnockout() bool {
	return NormalizeStage(g.Stage) != StageGroup
}

// HasUsableResult reports whether the official result can be scored against.
// Both regulation scores must be present; penalty scores are optional.
func (g Game) HasUsableResult() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

func (g Game) HasStarted(now time.Time) bool {
	return !g.KickoffAt.IsZero() && !now.Before(g.KickoffAt)
}

func NormalizeStage(value string) string {
	stage := strings.ToUpper(strings.TrimSpace(value))
	if stage == "" {
		return StageGroup
	}
	return stage
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLive, "IN_PLAY", "HT", "1H", "2H", "ET", "PEN_LIVE":
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED", "WALKOVER":
		return true
	default:
		return false
	}
}
