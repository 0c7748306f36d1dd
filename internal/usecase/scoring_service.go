package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prodehub/prode-api/internal/domain/boost"
	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/domain/leaderboard"
	"github.com/prodehub/prode-api/internal/domain/scoring"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/domain/user"
	"github.com/prodehub/prode-api/internal/platform/logging"
	"github.com/prodehub/prode-api/internal/platform/resilience"
)

const defaultScoringEnsureInterval = 30 * time.Second

const snapshotDayLayout = "2006-01-02"

// GameScore is the scored outcome of one guess against one game.
type GameScore struct {
	GameID     string
	Points     int
	Multiplier int
	Counted    int
}

// UserScoreBreakdown explains how a user's tournament total was assembled.
type UserScoreBreakdown struct {
	TournamentID string
	UserID       string
	Games        []GameScore
	GamePoints   int
	PickBonus    int
	GroupBonus   int
	Total        int
}

type ScoringService struct {
	tournamentRepo  tournament.Repository
	gameRepo        game.Repository
	guessRepo       guess.Repository
	boostRepo       boost.Repository
	userRepo        user.Repository
	leaderboardRepo leaderboard.Repository
	boostRules      boost.Rules
	logger          *logging.Logger
	now             func() time.Time
	ensureFlight    resilience.SingleFlight
	ensureMu        sync.Mutex
	lastEnsureAt    map[string]time.Time
	ensureInterval  time.Duration
}

func NewScoringService(
	tournamentRepo tournament.Repository,
	gameRepo game.Repository,
	guessRepo guess.Repository,
	boostRepo boost.Repository,
	userRepo user.Repository,
	leaderboardRepo leaderboard.Repository,
	boostRules boost.Rules,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		tournamentRepo:  tournamentRepo,
		gameRepo:        gameRepo,
		guessRepo:       guessRepo,
		boostRepo:       boostRepo,
		userRepo:        userRepo,
		leaderboardRepo: leaderboardRepo,
		boostRules:      boostRules,
		logger:          logger,
		now:             time.Now,
		lastEnsureAt:    make(map[string]time.Time),
		ensureInterval:  defaultScoringEnsureInterval,
	}
}

// EnsureTournamentUpToDate recomputes the tournament leaderboard unless it
// was recomputed recently. Concurrent callers share one computation.
func (s *ScoringService) EnsureTournamentUpToDate(ctx context.Context, tournamentID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EnsureTournamentUpToDate")
	defer span.End()

	now := s.now().UTC()
	if s.shouldSkipEnsure(tournamentID, now) {
		return nil
	}

	key := "scoring:ensure:" + tournamentID
	_, err, _ := s.ensureFlight.Do(key, func() (any, error) {
		runNow := s.now().UTC()
		if s.shouldSkipEnsure(tournamentID, runNow) {
			return nil, nil
		}

		if runErr := s.recomputeTournamentOnce(ctx, tournamentID, runNow); runErr != nil {
			return nil, runErr
		}
		s.markEnsure(tournamentID, runNow)
		return nil, nil
	})
	if err != nil {
		return err
	}
	return nil
}

// Recompute recomputes the tournament leaderboard immediately, bypassing the
// ensure throttle. Internal jobs call this after results land.
func (s *ScoringService) Recompute(ctx context.Context, tournamentID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Recompute")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	if err := s.recomputeTournamentOnce(ctx, tournamentID, now); err != nil {
		return err
	}
	s.markEnsure(tournamentID, now)
	return nil
}

func (s *ScoringService) recomputeTournamentOnce(ctx context.Context, tournamentID string, now time.Time) error {
	_, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("get tournament for scoring: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	games, err := s.gameRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list games for scoring: %w", err)
	}

	guesses, err := s.guessRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list guesses for scoring: %w", err)
	}

	boosts, err := s.boostRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list boosts for scoring: %w", err)
	}

	allPicks, err := s.guessRepo.ListTournamentPicks(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list tournament picks for scoring: %w", err)
	}

	orderPicks, err := s.guessRepo.ListGroupOrderPicks(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list group order picks for scoring: %w", err)
	}

	outcome, _, err := s.tournamentRepo.GetOutcome(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("get outcome for scoring: %w", err)
	}

	groupResults, err := s.tournamentRepo.ListGroupResults(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list group results for scoring: %w", err)
	}

	totals := computeTotals(games, guesses, boosts, allPicks, orderPicks, outcome, groupResults, s.boostRules)
	if len(totals) == 0 {
		return nil
	}

	userIDs := make([]string, 0, len(totals))
	for userID := range totals {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	records, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("list users for scoring: %w", err)
	}
	usernameByID := make(map[string]string, len(records))
	for _, record := range records {
		usernameByID[record.ID] = record.Username
	}

	entries := make([]leaderboard.Entry, 0, len(userIDs))
	for _, userID := range userIDs {
		total := totals[userID]
		entries = append(entries, leaderboard.Entry{
			TournamentID: tournamentID,
			UserID:       userID,
			Username:     usernameByID[userID],
			Score:        &total,
			UpdatedAt:    now,
		})
	}

	if err := s.leaderboardRepo.ReplaceByTournament(ctx, tournamentID, entries); err != nil {
		return fmt.Errorf("replace leaderboard entries: %w", err)
	}

	day := now.Format(snapshotDayLayout)
	snapshots := make([]leaderboard.Snapshot, 0, len(entries))
	for _, entry := range entries {
		snapshots = append(snapshots, leaderboard.Snapshot{
			TournamentID: tournamentID,
			UserID:       entry.UserID,
			Day:          day,
			Score:        *entry.Score,
			CreatedAt:    now,
		})
	}
	if err := s.leaderboardRepo.UpsertSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("upsert leaderboard snapshots: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament scores recomputed",
		"tournament_id", tournamentID,
		"users", len(entries),
	)

	return nil
}

// GetUserBreakdown ensures the tournament is scored and returns how one
// user's total was assembled game by game.
func (s *ScoringService) GetUserBreakdown(ctx context.Context, tournamentID, userID string) (UserScoreBreakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetUserBreakdown")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	userID = strings.TrimSpace(userID)
	if tournamentID == "" || userID == "" {
		return UserScoreBreakdown{}, fmt.Errorf("%w: tournament_id and user_id are required", ErrInvalidInput)
	}

	if err := s.EnsureTournamentUpToDate(ctx, tournamentID); err != nil {
		return UserScoreBreakdown{}, err
	}

	games, err := s.gameRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return UserScoreBreakdown{}, fmt.Errorf("list games for breakdown: %w", err)
	}

	guesses, err := s.guessRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return UserScoreBreakdown{}, fmt.Errorf("list guesses for breakdown: %w", err)
	}
	guessByGame := make(map[string]guess.Guess, len(guesses))
	for _, item := range guesses {
		guessByGame[item.GameID] = item
	}

	boosts, err := s.boostRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return UserScoreBreakdown{}, fmt.Errorf("list boosts for breakdown: %w", err)
	}
	boosted := make(map[string]struct{}, len(boosts))
	for _, b := range boosts {
		boosted[b.GameID] = struct{}{}
	}

	out := UserScoreBreakdown{
		TournamentID: tournamentID,
		UserID:       userID,
		Games:        make([]GameScore, 0, len(games)),
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].KickoffAt.Before(games[j].KickoffAt)
	})
	for _, g := range games {
		ps, exists := guessByGame[g.ID]
		if !exists {
			continue
		}
		points := scoring.ScoreForGame(g, ps)
		multiplier := boost.MultiplierFor(g.ID, boosted, s.boostRules)
		counted := points * multiplier
		out.Games = append(out.Games, GameScore{
			GameID:     g.ID,
			Points:     points,
			Multiplier: multiplier,
			Counted:    counted,
		})
		out.GamePoints += counted
	}

	picks, picksExist, err := s.guessRepo.GetTournamentPicks(ctx, tournamentID, userID)
	if err != nil {
		return UserScoreBreakdown{}, fmt.Errorf("get tournament picks for breakdown: %w", err)
	}
	outcome, _, err := s.tournamentRepo.GetOutcome(ctx, tournamentID)
	if err != nil {
		return UserScoreBreakdown{}, fmt.Errorf("get outcome for breakdown: %w", err)
	}
	if picksExist {
		out.PickBonus = scoring.BonusForPicks(outcome, picks)
	}

	groupResults, err := s.tournamentRepo.ListGroupResults(ctx, tournamentID)
	if err != nil {
		return UserScoreBreakdown{}, fmt.Errorf("list group results for breakdown: %w", err)
	}
	orderPicks, err := s.guessRepo.ListGroupOrderPicksByUser(ctx, tournamentID, userID)
	if err != nil {
		return UserScoreBreakdown{}, fmt.Errorf("list group order picks for breakdown: %w", err)
	}
	resultByGroup := make(map[string]tournament.GroupResult, len(groupResults))
	for _, row := range groupResults {
		resultByGroup[strings.ToUpper(row.Group)] = row
	}
	for _, pick := range orderPicks {
		actual, exists := resultByGroup[strings.ToUpper(pick.Group)]
		if !exists {
			continue
		}
		out.GroupBonus += scoring.BonusForGroupOrder(actual, pick)
	}

	out.Total = out.GamePoints + out.PickBonus + out.GroupBonus
	return out, nil
}

func computeTotals(
	games []game.Game,
	guesses []guess.Guess,
	boosts []boost.Boost,
	allPicks []guess.TournamentPicks,
	orderPicks []guess.GroupOrderPick,
	outcome tournament.Outcome,
	groupResults []tournament.GroupResult,
	rules boost.Rules,
) map[string]int {
	gameByID := make(map[string]game.Game, len(games))
	for _, g := range games {
		gameByID[g.ID] = g
	}

	boostedByUser := make(map[string]map[string]struct{}, len(boosts))
	for _, b := range boosts {
		set, exists := boostedByUser[b.UserID]
		if !exists {
			set = make(map[string]struct{})
			boostedByUser[b.UserID] = set
		}
		set[b.GameID] = struct{}{}
	}

	totals := make(map[string]int)
	for _, ps := range guesses {
		g, exists := gameByID[ps.GameID]
		if !exists {
			continue
		}
		if _, seen := totals[ps.UserID]; !seen {
			totals[ps.UserID] = 0
		}
		points := scoring.ScoreForGame(g, ps)
		if points == 0 {
			continue
		}
		totals[ps.UserID] += points * boost.MultiplierFor(g.ID, boostedByUser[ps.UserID], rules)
	}

	for _, picks := range allPicks {
		if _, seen := totals[picks.UserID]; !seen {
			totals[picks.UserID] = 0
		}
		totals[picks.UserID] += scoring.BonusForPicks(outcome, picks)
	}

	resultByGroup := make(map[string]tournament.GroupResult, len(groupResults))
	for _, row := range groupResults {
		resultByGroup[strings.ToUpper(row.Group)] = row
	}
	for _, pick := range orderPicks {
		if _, seen := totals[pick.UserID]; !seen {
			totals[pick.UserID] = 0
		}
		actual, exists := resultByGroup[strings.ToUpper(pick.Group)]
		if !exists {
			continue
		}
		totals[pick.UserID] += scoring.BonusForGroupOrder(actual, pick)
	}

	return totals
}

func (s *ScoringService) shouldSkipEnsure(tournamentID string, now time.Time) bool {
	if s.ensureInterval <= 0 || tournamentID == "" {
		return false
	}
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	last, ok := s.lastEnsureAt[tournamentID]
	if !ok || last.IsZero() {
		return false
	}
	return now.Sub(last) < s.ensureInterval
}

func (s *ScoringService) markEnsure(tournamentID string, now time.Time) {
	if tournamentID == "" {
		return
	}
	s.ensureMu.Lock()
	s.lastEnsureAt[tournamentID] = now
	s.ensureMu.Unlock()
}
