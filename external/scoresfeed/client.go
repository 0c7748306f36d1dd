package scoresfeed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/prodehub/prode-api/internal/domain/rawdata"
	"github.com/prodehub/prode-api/internal/platform/logging"
	"github.com/prodehub/prode-api/internal/platform/resilience"
	"github.com/prodehub/prode-api/internal/usecase"
)

const (
	defaultBaseURL = "https://api.scoresfeed.example.com/v2"
	defaultInclude = "participants;scores;venue;state"
	sourceName     = "scoresfeed"
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errScoresFeedTransient = crerr.New("scoresfeed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchTournamentGames pulls the full game list for one feed tournament.
func (c *Client) FetchTournamentGames(ctx context.Context, feedRefID int64) ([]usecase.ExternalGame, []rawdata.Payload, error) {
	if feedRefID <= 0 {
		return nil, nil, fmt.Errorf("feed ref id must be greater than zero")
	}

	path := fmt.Sprintf("/tournaments/%d/games", feedRefID)
	query := map[string]string{"include": defaultInclude}

	var envelope gamesEnvelope
	raw, err := c.doJSON(ctx, path, query, &envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch games tournament_ref=%d: %w", feedRefID, err)
	}

	games := make([]usecase.ExternalGame, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		games = append(games, mapFeedGame(item))
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].ExternalID < games[j].ExternalID })

	payloads := []rawdata.Payload{buildAPIPayload(feedRefID, path, query, raw)}

	return games, payloads, nil
}

type gamesEnvelope struct {
	Data []feedGame `json:"data"`
}

type feedGame struct {
	ID           int64             `json:"id"`
	Stage        string            `json:"stage"`
	Group        string            `json:"group"`
	StartingAt   string            `json:"starting_at"`
	FinishedAt   string            `json:"finished_at"`
	Venue        feedVenue         `json:"venue"`
	State        feedState         `json:"state"`
	Participants []feedParticipant `json:"participants"`
	Scores       feedScores        `json:"scores"`
}

type feedVenue struct {
	Name string `json:"name"`
}

type feedState struct {
	Code string `json:"code"`
}

type feedParticipant struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type feedScores struct {
	Home          *int `json:"home"`
	Away          *int `json:"away"`
	HomePenalties *int `json:"home_penalties"`
	AwayPenalties *int `json:"away_penalties"`
}

func mapFeedGame(item feedGame) usecase.ExternalGame {
	out := usecase.ExternalGame{
		ExternalID:       item.ID,
		Stage:            strings.TrimSpace(item.Stage),
		Group:            strings.TrimSpace(item.Group),
		Venue:            strings.TrimSpace(item.Venue.Name),
		Status:           strings.TrimSpace(item.State.Code),
		HomeScore:        item.Scores.Home,
		AwayScore:        item.Scores.Away,
		HomePenaltyScore: item.Scores.HomePenalties,
		AwayPenaltyScore: item.Scores.AwayPenalties,
	}

	for _, participant := range item.Participants {
		switch strings.ToLower(strings.TrimSpace(participant.Location)) {
		case "home":
			out.HomeTeamName = strings.TrimSpace(participant.Name)
		case "away":
			out.AwayTeamName = strings.TrimSpace(participant.Name)
		}
	}

	if parsed := parseFeedDateTime(item.StartingAt); parsed != nil {
		out.KickoffAt = *parsed
	}
	out.FinishedAt = parseFeedDateTime(item.FinishedAt)

	return out
}

func parseFeedDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "scoresfeed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: scores feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				if crerr.Is(reqErr, errScoresFeedTransient) {
					c.breaker.RecordFailure()
				} else {
					c.breaker.RecordSuccess()
				}
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode feed payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errScoresFeedTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errScoresFeedTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: feed status=%d body=%s", errScoresFeedTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "scoresfeed request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func buildAPIPayload(feedRefID int64, path string, query map[string]string, raw []byte) rawdata.Payload {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	entityKey := strings.TrimSpace(path)
	if encoded := values.Encode(); encoded != "" {
		entityKey += "?" + encoded
	}

	sum := sha256.Sum256(raw)
	return rawdata.Payload{
		Source:          sourceName,
		EntityType:      "api_response",
		EntityKey:       entityKey,
		TournamentRefID: strconv.FormatInt(feedRefID, 10),
		PayloadJSON:     string(raw),
		PayloadHash:     hex.EncodeToString(sum[:]),
	}
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func redactAPIURL(raw string) string {
	return apiTokenParamRegex.ReplaceAllString(raw, "api_token=REDACTED")
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 512
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
