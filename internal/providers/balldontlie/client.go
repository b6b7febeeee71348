package balldontlie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers"
)

const unauthorizedMessage = "401 unauthorized: API key missing or invalid (check BALLDONTLIE_API_KEY)"

// Config controls how the balldontlie client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxPages   int
}

// Client fetches players and season averages from the balldontlie API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	now        func() time.Time
	maxPages   int
}

// NewClient constructs a balldontlie client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
		maxPages:   resolveMaxPages(cfg.MaxPages),
	}
}

// ListPlayers follows the players cursor until maxPlayers are collected, the cursor runs out,
// or the page cap is reached.
func (c *Client) ListPlayers(ctx context.Context, maxPlayers int) ([]players.Player, error) {
	if maxPlayers <= 0 {
		return []players.Player{}, nil
	}

	result := make([]players.Player, 0, maxPlayers)
	cursor := 0

	for page := 1; len(result) < maxPlayers; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(defaultPerPage))
		q.Set("cursor", strconv.Itoa(cursor))

		var payload playersResponse
		if err := c.get(ctx, playersPath, q, &payload); err != nil {
			return nil, err
		}

		for _, p := range payload.Data {
			result = append(result, mapPlayer(p))
			if len(result) >= maxPlayers {
				break
			}
		}

		next := payload.Meta.NextCursor
		if next == nil || *next == 0 || page >= c.maxPages {
			break
		}
		cursor = *next
	}

	return result, nil
}

// SeasonAverages fetches raw season averages for the given players in one request.
func (c *Client) SeasonAverages(ctx context.Context, season int, playerIDs []int) ([]stats.SeasonAverage, error) {
	if len(playerIDs) == 0 {
		return []stats.SeasonAverage{}, nil
	}

	q := url.Values{}
	q.Set("season", strconv.Itoa(season))
	for _, id := range playerIDs {
		q.Add("player_ids[]", strconv.Itoa(id))
	}

	var payload seasonAveragesResponse
	if err := c.get(ctx, seasonAveragesPath, q, &payload); err != nil {
		return nil, err
	}

	result := make([]stats.SeasonAverage, 0, len(payload.Data))
	for _, a := range payload.Data {
		result = append(result, mapSeasonAverage(a))
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return c.upstreamError(path, 0, "", err)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return c.upstreamError(path, 0, "", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return c.upstreamError(path, resp.StatusCode, unauthorizedMessage, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    "balldontlie rate limited",
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		msg := fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return c.upstreamError(path, resp.StatusCode, msg, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.upstreamError(path, resp.StatusCode, "decode response", err)
	}
	return nil
}

func (c *Client) upstreamError(path string, status int, msg string, err error) error {
	return &providers.UpstreamError{
		Provider:   providerName,
		Path:       path,
		StatusCode: status,
		Message:    msg,
		Err:        err,
	}
}
