package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/platform/logging"
)

// GameGuessInput is one predicted scoreline in an upsert batch.
type GameGuessInput struct {
	GameID            string
	HomeScore         *int
	AwayScore         *int
	HomePenaltyWinner *bool
	AwayPenaltyWinner *bool
}

type UpsertGuessesInput struct {
	TournamentID string
	UserID       string
	Guesses      []GameGuessInput
}

type UpsertTournamentPicksInput struct {
	TournamentID    string
	UserID          string
	ChampionTeamID  string
	RunnerUpTeamID  string
	TopScorerPlayer string
}

type UpsertGroupOrderPickInput struct {
	TournamentID   string
	UserID         string
	Group          string
	OrderedTeamIDs []string
}

type GuessService struct {
	tournamentRepo tournament.Repository
	gameRepo       game.Repository
	guessRepo      guess.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewGuessService(
	tournamentRepo tournament.Repository,
	gameRepo game.Repository,
	guessRepo guess.Repository,
	logger *logging.Logger,
) *GuessService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GuessService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		guessRepo:      guessRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *GuessService) UpsertGuesses(ctx context.Context, input UpsertGuessesInput) ([]guess.Guess, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GuessService.UpsertGuesses")
	defer span.End()

	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.UserID = strings.TrimSpace(input.UserID)
	if input.TournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(input.Guesses) == 0 {
		return nil, fmt.Errorf("%w: guesses are required", ErrInvalidInput)
	}

	if err := s.validateTournament(ctx, input.TournamentID); err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListByTournament(ctx, input.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("list games for guesses: %w", err)
	}
	gameByID := make(map[string]game.Game, len(games))
	for _, g := range games {
		gameByID[g.ID] = g
	}

	now := s.now().UTC()
	seen := make(map[string]struct{}, len(input.Guesses))
	out := make([]guess.Guess, 0, len(input.Guesses))
	for _, item := range input.Guesses {
		gameID := strings.TrimSpace(item.GameID)
		if gameID == "" {
			return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
		}
		if _, dup := seen[gameID]; dup {
			return nil, fmt.Errorf("%w: duplicate guess for game=%s", ErrInvalidInput, gameID)
		}
		seen[gameID] = struct{}{}

		g, exists := gameByID[gameID]
		if !exists {
			return nil, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
		}
		if g.HasStarted(now) {
			return nil, fmt.Errorf("%w: game=%s already started", ErrInvalidInput, gameID)
		}
		if err := validateGameGuess(item, g); err != nil {
			return nil, err
		}

		out = append(out, guess.Guess{
			TournamentID:      input.TournamentID,
			GameID:            gameID,
			UserID:            input.UserID,
			HomeScore:         item.HomeScore,
			AwayScore:         item.AwayScore,
			HomePenaltyWinner: item.HomePenaltyWinner,
			AwayPenaltyWinner: item.AwayPenaltyWinner,
			UpdatedAt:         now,
		})
	}

	if err := s.guessRepo.UpsertGuesses(ctx, out); err != nil {
		return nil, fmt.Errorf("upsert guesses: %w", err)
	}

	s.logger.InfoContext(ctx, "guesses upserted",
		"tournament_id", input.TournamentID,
		"user_id", input.UserID,
		"count", len(out),
	)

	return out, nil
}

func (s *GuessService) ListUserGuesses(ctx context.Context, tournamentID, userID string) ([]guess.Guess, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GuessService.ListUserGuesses")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	userID = strings.TrimSpace(userID)
	if tournamentID == "" || userID == "" {
		return nil, fmt.Errorf("%w: tournament_id and user_id are required", ErrInvalidInput)
	}

	items, err := s.guessRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return nil, fmt.Errorf("list guesses: %w", err)
	}
	return items, nil
}

func (s *GuessService) UpsertTournamentPicks(ctx context.Context, input UpsertTournamentPicksInput) (guess.TournamentPicks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GuessService.UpsertTournamentPicks")
	defer span.End()

	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.ChampionTeamID = strings.TrimSpace(input.ChampionTeamID)
	input.RunnerUpTeamID = strings.TrimSpace(input.RunnerUpTeamID)
	input.TopScorerPlayer = strings.TrimSpace(input.TopScorerPlayer)

	if input.TournamentID == "" {
		return guess.TournamentPicks{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if input.UserID == "" {
		return guess.TournamentPicks{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.ChampionTeamID != "" && input.ChampionTeamID == input.RunnerUpTeamID {
		return guess.TournamentPicks{}, fmt.Errorf("%w: champion and runner-up must differ", ErrInvalidInput)
	}

	if err := s.validateTournament(ctx, input.TournamentID); err != nil {
		return guess.TournamentPicks{}, err
	}

	if input.ChampionTeamID != "" || input.RunnerUpTeamID != "" {
		teams, err := s.tournamentRepo.ListTeams(ctx, input.TournamentID)
		if err != nil {
			return guess.TournamentPicks{}, fmt.Errorf("list teams for picks: %w", err)
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
				return guess.TournamentPicks{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
			}
		}
	}

	picks := guess.TournamentPicks{
		TournamentID:    input.TournamentID,
		UserID:          input.UserID,
		ChampionTeamID:  input.ChampionTeamID,
		RunnerUpTeamID:  input.RunnerUpTeamID,
		TopScorerPlayer: input.TopScorerPlayer,
		UpdatedAt:       s.now().UTC(),
	}
	if err := s.guessRepo.UpsertTournamentPicks(ctx, picks); err != nil {
		return guess.TournamentPicks{}, fmt.Errorf("upsert tournament picks: %w", err)
	}

	return picks, nil
}

func (s *GuessService) GetTournamentPicks(ctx context.Context, tournamentID, userID string) (guess.TournamentPicks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GuessService.GetTournamentPicks")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	userID = strings.TrimSpace(userID)
	if tournamentID == "" || userID == "" {
		return guess.TournamentPicks{}, fmt.Errorf("%w: tournament_id and user_id are required", ErrInvalidInput)
	}

	picks, exists, err := s.guessRepo.GetTournamentPicks(ctx, tournamentID, userID)
	if err != nil {
		return guess.TournamentPicks{}, fmt.Errorf("get tournament picks: %w", err)
	}
	if !exists {
		return guess.TournamentPicks{}, fmt.Errorf("%w: tournament picks", ErrNotFound)
	}
	return picks, nil
}

func (s *GuessService) UpsertGroupOrderPick(ctx context.Context, input UpsertGroupOrderPickInput) (guess.GroupOrderPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GuessService.UpsertGroupOrderPick")
	defer span.End()

	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.Group = strings.ToUpper(strings.TrimSpace(input.Group))

	if input.TournamentID == "" {
		return guess.GroupOrderPick{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if input.UserID == "" {
		return guess.GroupOrderPick{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Group == "" {
		return guess.GroupOrderPick{}, fmt.Errorf("%w: group is required", ErrInvalidInput)
	}
	if len(input.OrderedTeamIDs) == 0 {
		return guess.GroupOrderPick{}, fmt.Errorf("%w: ordered team ids are required", ErrInvalidInput)
	}

	if err := s.validateTournament(ctx, input.TournamentID); err != nil {
		return guess.GroupOrderPick{}, err
	}

	teams, err := s.tournamentRepo.ListTeams(ctx, input.TournamentID)
	if err != nil {
		return guess.GroupOrderPick{}, fmt.Errorf("list teams for group order pick: %w", err)
	}
	groupTeams := make(map[string]struct{})
	for _, team := range teams {
		if strings.EqualFold(team.Group, input.Group) {
			groupTeams[team.ID] = struct{}{}
		}
	}
	if len(groupTeams) == 0 {
		return guess.GroupOrderPick{}, fmt.Errorf("%w: group=%s", ErrNotFound, input.Group)
	}

	ordered := make([]string, 0, len(input.OrderedTeamIDs))
	seen := make(map[string]struct{}, len(input.OrderedTeamIDs))
	for _, teamID := range input.OrderedTeamIDs {
		teamID = strings.TrimSpace(teamID)
		if teamID == "" {
			return guess.GroupOrderPick{}, fmt.Errorf("%w: team id cannot be empty", ErrInvalidInput)
		}
		if _, dup := seen[teamID]; dup {
			return guess.GroupOrderPick{}, fmt.Errorf("%w: duplicate team id %s", ErrInvalidInput, teamID)
		}
		seen[teamID] = struct{}{}
		if _, ok := groupTeams[teamID]; !ok {
			return guess.GroupOrderPick{}, fmt.Errorf("%w: team=%s is not in group=%s", ErrInvalidInput, teamID, input.Group)
		}
		ordered = append(ordered, teamID)
	}
	if len(ordered) != len(groupTeams) {
		return guess.GroupOrderPick{}, fmt.Errorf("%w: group=%s order must list all %d teams", ErrInvalidInput, input.Group, len(groupTeams))
	}

	pick := guess.GroupOrderPick{
		TournamentID:   input.TournamentID,
		UserID:         input.UserID,
		Group:          input.Group,
		OrderedTeamIDs: ordered,
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.guessRepo.UpsertGroupOrderPick(ctx, pick); err != nil {
		return guess.GroupOrderPick{}, fmt.Errorf("upsert group order pick: %w", err)
	}

	return pick, nil
}

// GetCompleteness reports how much of the tournament form a user has filled
// in: games guessed out of total, picks done, groups ordered.
func (s *GuessService) GetCompleteness(ctx context.Context, tournamentID, userID string) (guess.Completeness, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GuessService.GetCompleteness")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	userID = strings.TrimSpace(userID)
	if tournamentID == "" || userID == "" {
		return guess.Completeness{}, fmt.Errorf("%w: tournament_id and user_id are required", ErrInvalidInput)
	}

	games, err := s.gameRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return guess.Completeness{}, fmt.Errorf("list games for completeness: %w", err)
	}
	guesses, err := s.guessRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return guess.Completeness{}, fmt.Errorf("list guesses for completeness: %w", err)
	}

	guessed := 0
	for _, item := range guesses {
		if item.HasUsableScore() {
			guessed++
		}
	}

	picks, picksExist, err := s.guessRepo.GetTournamentPicks(ctx, tournamentID, userID)
	if err != nil {
		return guess.Completeness{}, fmt.Errorf("get tournament picks for completeness: %w", err)
	}

	teams, err := s.tournamentRepo.ListTeams(ctx, tournamentID)
	if err != nil {
		return guess.Completeness{}, fmt.Errorf("list teams for completeness: %w", err)
	}
	groups := make(map[string]struct{})
	for _, team := range teams {
		if team.Group != "" {
			groups[strings.ToUpper(team.Group)] = struct{}{}
		}
	}

	orderPicks, err := s.guessRepo.ListGroupOrderPicksByUser(ctx, tournamentID, userID)
	if err != nil {
		return guess.Completeness{}, fmt.Errorf("list group order picks for completeness: %w", err)
	}

	out := guess.Completeness{
		TournamentID:    tournamentID,
		UserID:          userID,
		TotalGames:      len(games),
		PredictedGames:  guessed,
		TotalGroups:     len(groups),
		PredictedGroups: len(orderPicks),
		PicksComplete:   picksExist && picks.IsComplete(),
	}

	// Picks count as one slot alongside every game and group.
	slots := out.TotalGames + out.TotalGroups + 1
	filled := out.PredictedGames + out.PredictedGroups
	if out.PicksComplete {
		filled++
	}
	out.Percent = float64(filled) / float64(slots) * 100

	return out, nil
}

func (s *GuessService) validateTournament(ctx context.Context, tournamentID string) error {
	_, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	return nil
}

func validateGameGuess(item GameGuessInput, g game.Game) error {
	for _, score := range []*int{item.HomeScore, item.AwayScore} {
		if score != nil && *score < 0 {
			return fmt.Errorf("%w: game=%s scores cannot be negative", ErrInvalidInput, item.GameID)
		}
	}
	if (item.HomeScore == nil) != (item.AwayScore == nil) {
		return fmt.Errorf("%w: game=%s both scores are required", ErrInvalidInput, item.GameID)
	}

	homeWin := item.HomePenaltyWinner != nil && *item.HomePenaltyWinner
	awayWin := item.AwayPenaltyWinner != nil && *item.AwayPenaltyWinner
	if homeWin && awayWin {
		return fmt.Errorf("%w: game=%s cannot mark both sides as penalty winner", ErrInvalidInput, item.GameID)
	}
	if (homeWin || awayWin) && !g.IsKnockout() {
		return fmt.Errorf("%w: game=%s penalty winner only applies to knockout games", ErrInvalidInput, item.GameID)
	}

	return nil
}
