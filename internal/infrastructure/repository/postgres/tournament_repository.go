package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	qb "github.com/prodehub/prode-api/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.IsNull("deleted_at")).
		OrderBy("starts_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(
			qb.Eq("public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}

	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) ListTeams(ctx context.Context, tournamentID string) ([]tournament.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("group_name", "name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]tournament.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournament.Team{
			ID:           row.PublicID,
			TournamentID: row.TournamentID,
			Name:         row.Name,
			Short:        row.Short,
			Group:        row.GroupName,
		})
	}
	return out, nil
}

func (r *TournamentRepository) GetOutcome(ctx context.Context, tournamentID string) (tournament.Outcome, bool, error) {
	query, args, err := qb.Select("*").From("tournament_outcomes").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return tournament.Outcome{}, false, fmt.Errorf("build get tournament outcome query: %w", err)
	}

	var row outcomeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Outcome{}, false, nil
		}
		return tournament.Outcome{}, false, fmt.Errorf("get tournament outcome: %w", err)
	}

	return tournament.Outcome{
		TournamentID:    row.TournamentID,
		ChampionTeamID:  nullStringToString(row.ChampionTeamID),
		RunnerUpTeamID:  nullStringToString(row.RunnerUpTeamID),
		TopScorerPlayer: nullStringToString(row.TopScorerPlayer),
		UpdatedAt:       row.UpdatedAt,
	}, true, nil
}

func (r *TournamentRepository) UpsertOutcome(ctx context.Context, outcome tournament.Outcome) error {
	insertModel := outcomeInsertModel{
		TournamentID:    outcome.TournamentID,
		ChampionTeamID:  nullableString(outcome.ChampionTeamID),
		RunnerUpTeamID:  nullableString(outcome.RunnerUpTeamID),
		TopScorerPlayer: nullableString(outcome.TopScorerPlayer),
	}

	query, args, err := qb.InsertModel("tournament_outcomes", insertModel, `ON CONFLICT (tournament_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    champion_team_public_id = EXCLUDED.champion_team_public_id,
    runner_up_team_public_id = EXCLUDED.runner_up_team_public_id,
    top_scorer_player = EXCLUDED.top_scorer_player,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert tournament outcome query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert tournament outcome tournament=%s: %w", outcome.TournamentID, err)
	}
	return nil
}

func (r *TournamentRepository) ListGroupResults(ctx context.Context, tournamentID string) ([]tournament.GroupResult, error) {
	query, args, err := qb.Select("*").From("group_results").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("group_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list group results query: %w", err)
	}

	var rows []groupResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list group results: %w", err)
	}

	out := make([]tournament.GroupResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournament.GroupResult{
			TournamentID:   row.TournamentID,
			Group:          row.GroupName,
			OrderedTeamIDs: append([]string(nil), row.OrderedTeamIDs...),
		})
	}
	return out, nil
}

func (r *TournamentRepository) ReplaceGroupResults(ctx context.Context, tournamentID string, rows []tournament.GroupResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace group results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("group_results").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear group results query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear group results: %w", err)
	}

	for _, item := range rows {
		insertModel := groupResultInsertModel{
			TournamentID:   tournamentID,
			GroupName:      item.Group,
			OrderedTeamIDs: pq.StringArray(item.OrderedTeamIDs),
		}
		query, args, err := qb.InsertModel("group_results", insertModel, `ON CONFLICT (tournament_public_id, group_name) WHERE deleted_at IS NULL
DO UPDATE SET
    ordered_team_ids = EXCLUDED.ordered_team_ids,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert group result query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert group result group=%s: %w", item.Group, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace group results tx: %w", err)
	}
	return nil
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:        row.PublicID,
		Name:      row.Name,
		Season:    row.Season,
		Status:    row.Status,
		FeedRefID: nullInt64ToInt64(row.FeedRefID),
		StartsAt:  row.StartsAt,
		EndsAt:    nullTimeToTimePtr(row.EndsAt),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
