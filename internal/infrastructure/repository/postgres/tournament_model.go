package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type tournamentTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	Name      string        `db:"name"`
	Season    string        `db:"season"`
	Status    string        `db:"status"`
	FeedRefID sql.NullInt64 `db:"feed_ref_id"`
	StartsAt  time.Time     `db:"starts_at"`
	EndsAt    sql.NullTime  `db:"ends_at"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at"`
}

type teamTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	TournamentID string     `db:"tournament_public_id"`
	Name         string     `db:"name"`
	Short        string     `db:"short"`
	GroupName    string     `db:"group_name"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type outcomeTableModel struct {
	ID              int64          `db:"id"`
	TournamentID    string         `db:"tournament_public_id"`
	ChampionTeamID  sql.NullString `db:"champion_team_public_id"`
	RunnerUpTeamID  sql.NullString `db:"runner_up_team_public_id"`
	TopScorerPlayer sql.NullString `db:"top_scorer_player"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}

type outcomeInsertModel struct {
	TournamentID    string  `db:"tournament_public_id"`
	ChampionTeamID  *string `db:"champion_team_public_id"`
	RunnerUpTeamID  *string `db:"runner_up_team_public_id"`
	TopScorerPlayer *string `db:"top_scorer_player"`
}

type groupResultTableModel struct {
	ID             int64          `db:"id"`
	TournamentID   string         `db:"tournament_public_id"`
	GroupName      string         `db:"group_name"`
	OrderedTeamIDs pq.StringArray `db:"ordered_team_ids"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type groupResultInsertModel struct {
	TournamentID   string         `db:"tournament_public_id"`
	GroupName      string         `db:"group_name"`
	OrderedTeamIDs pq.StringArray `db:"ordered_team_ids"`
}
