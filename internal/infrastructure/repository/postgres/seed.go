package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prodehub/prode-api/internal/infrastructure/repository/memory"
)

func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM tournaments WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count tournaments for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTournaments() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO tournaments (public_id, name, season, status, feed_ref_id, starts_at)
VALUES (:public_id, :name, :season, :status, :feed_ref_id, :starts_at)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":   t.ID,
			"name":        t.Name,
			"season":      t.Season,
			"status":      t.Status,
			"feed_ref_id": t.FeedRefID,
			"starts_at":   t.StartsAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed tournament %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed tournament %s: %w", t.ID, err)
		}
	}

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, tournament_public_id, name, short, group_name)
VALUES (:public_id, :tournament_public_id, :name, :short, :group_name)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":            t.ID,
			"tournament_public_id": t.TournamentID,
			"name":                 t.Name,
			"short":                t.Short,
			"group_name":           t.Group,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, g := range memory.SeedGames() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO games (public_id, tournament_public_id, stage, group_name, home_team_public_id, away_team_public_id, home_team, away_team, kickoff_at, venue, status)
VALUES (:public_id, :tournament_public_id, :stage, :group_name, :home_team_public_id, :away_team_public_id, :home_team, :away_team, :kickoff_at, :venue, :status)
ON CONFLICT (tournament_public_id, public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":            g.ID,
			"tournament_public_id": g.TournamentID,
			"stage":                g.Stage,
			"group_name":           g.Group,
			"home_team_public_id":  g.HomeTeamID,
			"away_team_public_id":  g.AwayTeamID,
			"home_team":            g.HomeTeam,
			"away_team":            g.AwayTeam,
			"kickoff_at":           g.KickoffAt,
			"venue":                g.Venue,
			"status":               g.Status,
		})
		if err != nil {
			return fmt.Errorf("bind seed game %s query: %w", g.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed game %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
