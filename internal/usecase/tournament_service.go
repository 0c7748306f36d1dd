package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/platform/logging"
)

type SetOutcomeInput struct {
	TournamentID    string
	ChampionTeamID  string
	RunnerUpTeamID  string
	TopScorerPlayer string
}

type SetGroupResultInput struct {
	TournamentID   string
	Group          string
	OrderedTeamIDs []string
}

type TournamentService struct {
	tournamentRepo tournament.Repository
	scoringSvc     gameScoringProvider
	logger         *logging.Logger
	now            func() time.Time
}

func NewTournamentService(
	tournamentRepo tournament.Repository,
	scoringSvc gameScoringProvider,
	logger *logging.Logger,
) *TournamentService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TournamentService{
		tournamentRepo: tournamentRepo,
		scoringSvc:     scoringSvc,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *TournamentService) List(ctx context.Context) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.List")
	defer span.End()

	items, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return items, nil
}

func (s *TournamentService) Get(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Get")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	item, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	return item, nil
}

func (s *TournamentService) ListTeams(ctx context.Context, tournamentID string) ([]tournament.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.ListTeams")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	teams, err := s.tournamentRepo.ListTeams(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// SetOutcome records official tournament-level results and triggers a
// leaderboard recompute so pick bonuses land immediately.
func (s *TournamentService) SetOutcome(ctx context.Context, input SetOutcomeInput) (tournament.Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.SetOutcome")
	defer span.End()

	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.ChampionTeamID = strings.TrimSpace(input.ChampionTeamID)
	input.RunnerUpTeamID = strings.TrimSpace(input.RunnerUpTeamID)
	input.TopScorerPlayer = strings.TrimSpace(input.TopScorerPlayer)

	if input.TournamentID == "" {
		return tournament.Outcome{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if input.ChampionTeamID != "" && input.ChampionTeamID == input.RunnerUpTeamID {
		return tournament.Outcome{}, fmt.Errorf("%w: champion and runner-up must differ", ErrInvalidInput)
	}

	if _, err := s.Get(ctx, input.TournamentID); err != nil {
		return tournament.Outcome{}, err
	}

	if input.ChampionTeamID != "" || input.RunnerUpTeamID != "" {
		teams, err := s.tournamentRepo.ListTeams(ctx, input.TournamentID)
		if err != nil {
			return tournament.Outcome{}, fmt.Errorf("list teams for outcome: %w", err)
		}
		known := make(map[string]struct{}, len(teams))
		for _, team := range teams {
			known[team.ID] = struct{}{}
		}
		for _, teamID := range []string{input.ChampionTeamID, input.RunnerUpTeamID} {
			if teamID == "" {
				continue
			}
			if _, ok := known[teamID]; !ok {
				return tournament.Outcome{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
			}
		}
	}

	outcome := tournament.Outcome{
		TournamentID:    input.TournamentID,
		ChampionTeamID:  input.ChampionTeamID,
		RunnerUpTeamID:  input.RunnerUpTeamID,
		TopScorerPlayer: input.TopScorerPlayer,
		UpdatedAt:       s.now().UTC(),
	}
	if err := s.tournamentRepo.UpsertOutcome(ctx, outcome); err != nil {
		return tournament.Outcome{}, fmt.Errorf("upsert outcome: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament outcome recorded", "tournament_id", input.TournamentID)

	if s.scoringSvc != nil {
		if err := s.scoringSvc.Recompute(ctx, input.TournamentID); err != nil {
			return tournament.Outcome{}, fmt.Errorf("recompute after outcome: %w", err)
		}
	}
	return outcome, nil
}

// SetGroupResults replaces the official finishing order of groups and
// triggers a leaderboard recompute.
func (s *TournamentService) SetGroupResults(ctx context.Context, tournamentID string, inputs []SetGroupResultInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.SetGroupResults")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: group results are required", ErrInvalidInput)
	}

	if _, err := s.Get(ctx, tournamentID); err != nil {
		return err
	}

	teams, err := s.tournamentRepo.ListTeams(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list teams for group results: %w", err)
	}
	teamsByGroup := make(map[string]map[string]struct{})
	for _, team := range teams {
		group := strings.ToUpper(team.Group)
		if group == "" {
			continue
		}
		if _, exists := teamsByGroup[group]; !exists {
			teamsByGroup[group] = make(map[string]struct{})
		}
		teamsByGroup[group][team.ID] = struct{}{}
	}

	rows := make([]tournament.GroupResult, 0, len(inputs))
	seenGroups := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		group := strings.ToUpper(strings.TrimSpace(input.Group))
		if group == "" {
			return fmt.Errorf("%w: group is required", ErrInvalidInput)
		}
		if _, dup := seenGroups[group]; dup {
			return fmt.Errorf("%w: duplicate group %s", ErrInvalidInput, group)
		}
		seenGroups[group] = struct{}{}

		members, exists := teamsByGroup[group]
		if !exists {
			return fmt.Errorf("%w: group=%s", ErrNotFound, group)
		}

		seenTeams := make(map[string]struct{}, len(input.OrderedTeamIDs))
		for _, teamID := range input.OrderedTeamIDs {
			teamID = strings.TrimSpace(teamID)
			if teamID == "" {
				return fmt.Errorf("%w: team id cannot be empty", ErrInvalidInput)
			}
			if _, dup := seenTeams[teamID]; dup {
				return fmt.Errorf("%w: duplicate team id %s", ErrInvalidInput, teamID)
			}
			seenTeams[teamID] = struct{}{}
			if _, ok := members[teamID]; !ok {
				return fmt.Errorf("%w: team=%s is not in group=%s", ErrInvalidInput, teamID, group)
			}
		}

		rows = append(rows, tournament.GroupResult{
			TournamentID:   tournamentID,
			Group:          group,
			OrderedTeamIDs: append([]string(nil), input.OrderedTeamIDs...),
		})
	}

	if err := s.tournamentRepo.ReplaceGroupResults(ctx, tournamentID, rows); err != nil {
		return fmt.Errorf("replace group results: %w", err)
	}

	s.logger.InfoContext(ctx, "group results recorded",
		"tournament_id", tournamentID,
		"groups", len(rows),
	)

	if s.scoringSvc != nil {
		if err := s.scoringSvc.Recompute(ctx, tournamentID); err != nil {
			return fmt.Errorf("recompute after group results: %w", err)
		}
	}
	return nil
}
