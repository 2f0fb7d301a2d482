// Package fetch talks to the catalog backend: listing games and asking it to
// ingest a game from Steam.
//
// Errors are typed (RequestError, StatusError, FetchError) so callers can
// turn them into user-facing messages with errors.As.
package fetch

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

	"github.com/abelbrown/gamedash/internal/logging"
	"github.com/abelbrown/gamedash/internal/model"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	opList   = "list games"
	opSync   = "sync steam"
	opHealth = "health"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20

	userAgent = "gamedash/1.0"
)

// Options tune a Client. Zero values pick the defaults noted per field.
type Options struct {
	// Timeout bounds each HTTP request. 0 disables the timeout.
	Timeout time.Duration
	// PageSize is the "limit" used when paging through GET /games.
	// 0 issues a single unpaginated request.
	PageSize int
	// MaxPages stops paging after this many requests. Default 1000.
	MaxPages int
	// RatePerSecond limits outgoing requests. 0 disables limiting.
	RatePerSecond float64
	// Burst is the limiter burst size. Default 1.
	Burst int
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

// Client is a catalog backend client. Safe for concurrent use.
type Client struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	pageSize int
	maxPages int
}

// NewClient creates a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 1000
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   hc,
		limiter:  limiter,
		pageSize: opts.PageSize,
		maxPages: maxPages,
	}
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestIDKey struct{}

// WithRequestID attaches id to ctx; requests made with ctx send it as
// X-Request-ID. Without one, each request gets a fresh UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// ListGames returns the full collection.
//
// The backend pages with skip/limit, so pages of PageSize are requested
// until one comes back short. Paging also stops when a page contains only
// games already seen (a server ignoring skip) or after MaxPages requests.
// Games are de-duplicated by ID, first occurrence wins.
//
// Any failure is returned as a *FetchError.
func (c *Client) ListGames(ctx context.Context) ([]model.Game, error) {
	if c.pageSize <= 0 {
		games, err := c.listPage(ctx, nil)
		if err != nil {
			return nil, &FetchError{Err: err}
		}
		return dedupe(games), nil
	}

	seen := make(map[int64]bool)
	all := make([]model.Game, 0, c.pageSize)

	for page := 0; ; page++ {
		if page >= c.maxPages {
			logging.Warn("Stopped paging games", "pages", page, "games", len(all))
			break
		}

		q := url.Values{}
		q.Set("skip", strconv.Itoa(page*c.pageSize))
		q.Set("limit", strconv.Itoa(c.pageSize))

		batch, err := c.listPage(ctx, q)
		if err != nil {
			return nil, &FetchError{Err: err}
		}

		added := 0
		for _, g := range batch {
			if seen[g.ID] {
				continue
			}
			seen[g.ID] = true
			all = append(all, g)
			added++
		}

		if len(batch) < c.pageSize || added == 0 {
			break
		}
	}

	logging.Debug("Listed games", "count", len(all))
	return all, nil
}

func (c *Client) listPage(ctx context.Context, q url.Values) ([]model.Game, error) {
	endpoint := c.baseURL + "/games"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	body, err := c.do(ctx, opList, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	var games []model.Game
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("%s: parse response: %w", opList, err)
	}
	return games, nil
}

// SyncSteam asks the backend to fetch appID from Steam and upsert it.
// appID is sent as given (already trimmed and validated by the caller).
// Returns the ingested game.
func (c *Client) SyncSteam(ctx context.Context, appID string) (model.Game, error) {
	endpoint := c.baseURL + "/games/sync-steam/" + url.PathEscape(appID)

	body, err := c.do(ctx, opSync, http.MethodPost, endpoint)
	if err != nil {
		return model.Game{}, err
	}

	var g model.Game
	if err := json.Unmarshal(body, &g); err != nil {
		return model.Game{}, fmt.Errorf("%s: parse response: %w", opSync, err)
	}

	logging.Info("Synced game", "appid", appID, "name", g.Name)
	return g, nil
}

// Health calls GET /health and reports whether the backend answered "ok".
func (c *Client) Health(ctx context.Context) error {
	body, err := c.do(ctx, opHealth, http.MethodGet, c.baseURL+"/health")
	if err != nil {
		return err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%s: parse response: %w", opHealth, err)
	}
	if resp.Status != "ok" {
		return fmt.Errorf("%s: backend reported status %q", opHealth, resp.Status)
	}
	return nil
}

// do performs one rate-limited request and returns the body of a 2xx
// response. Non-2xx responses become *StatusError, transport failures
// *RequestError.
func (c *Client) do(ctx context.Context, op, method, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID(ctx))

	logger := logging.WithPrefix("fetch")
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("Request failed", "op", op, "url", endpoint, "error", err)
		return nil, &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	logger.Debug("Request done", "op", op, "status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, Status: resp.StatusCode, Detail: parseDetail(body)}
	}
	return body, nil
}

// parseDetail extracts a string "detail" field from an error body.
// Structured details (FastAPI validation errors are arrays) are ignored.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

// dedupe drops repeated IDs, keeping the first occurrence. Always returns a
// non-nil slice.
func dedupe(games []model.Game) []model.Game {
	seen := make(map[int64]bool, len(games))
	result := make([]model.Game, 0, len(games))
	for _, g := range games {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		result = append(result, g)
	}
	return result
}
