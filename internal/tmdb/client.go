package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/time/rate"
)

const (
	userAgent = "reel/1.0"

	// maxErrorBody bounds how much of a failed response is kept on FetchError
	maxErrorBody = 1024
)

// Client implements domain.CatalogRepository against the TMDB v3 API.
// It performs no retries and sets no timeout of its own; callers bound
// requests with their context.
type Client struct {
	baseURL    string
	token      string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLanguage sets the language query parameter sent with every request
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithRateLimit paces requests to rps per second. Zero or negative disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new catalog API client
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		language:   "en-US",
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken updates the bearer token
func (c *Client) SetToken(token string) {
	c.token = token
}

// doRequest performs an authenticated GET and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.language != "" && query.Get("language") == "" {
		query.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.FetchError{Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("catalog request", "path", path, "query", query.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed", "path", path, "error", err)
		return nil, &domain.FetchError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := truncateBody(body)
		c.logger.Error("catalog request error", "path", path, "status", resp.StatusCode, "body", text)
		return nil, &domain.FetchError{StatusCode: resp.StatusCode, Body: text}
	}

	return body, nil
}

// truncateBody cuts body to maxErrorBody bytes without splitting a rune
func truncateBody(body []byte) string {
	if len(body) <= maxErrorBody {
		return strings.ToValidUTF8(string(body), "")
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return strings.ToValidUTF8(string(body[:cut]), "")
}

// decode unmarshals body into dest, wrapping failures as DecodeError
func (c *Client) decode(path string, body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "path", path, "error", err, "bodyLen", len(body))
		return &domain.DecodeError{Err: err}
	}
	return nil
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

// ListByCategory returns one page of a category listing
func (c *Client) ListByCategory(ctx context.Context, kind domain.MediaKind, category domain.Category, page int) ([]domain.MediaSummary, error) {
	if err := domain.CheckCategory(kind, category); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/%s/%s", kind, category)
	body, err := c.doRequest(ctx, path, pageQuery(page))
	if err != nil {
		return nil, err
	}

	var resp listResponse[mediaItem]
	if err := c.decode(path, body, &resp); err != nil {
		return nil, err
	}
	return MapSummaries(kind, resp.Results), nil
}

// Search returns one page of titles of kind matching query
func (c *Client) Search(ctx context.Context, kind domain.MediaKind, query string, page int) ([]domain.MediaSummary, error) {
	path := fmt.Sprintf("/search/%s", kind)
	q := pageQuery(page)
	q.Set("query", query)
	body, err := c.doRequest(ctx, path, q)
	if err != nil {
		return nil, err
	}

	var resp listResponse[mediaItem]
	if err := c.decode(path, body, &resp); err != nil {
		return nil, err
	}
	return MapSummaries(kind, resp.Results), nil
}

// GetDetail returns the full record for a single title
func (c *Client) GetDetail(ctx context.Context, kind domain.MediaKind, id int) (*domain.MediaDetail, error) {
	path := fmt.Sprintf("/%s/%d", kind, id)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp mediaDetail
	if err := c.decode(path, body, &resp); err != nil {
		return nil, err
	}
	detail, err := MapDetail(kind, resp)
	if err != nil {
		c.logger.Error("incomplete detail payload", "path", path, "error", err)
		return nil, err
	}
	return detail, nil
}

// GetReviews returns the first page of English reviews for a title
func (c *Client) GetReviews(ctx context.Context, kind domain.MediaKind, id int) ([]domain.Review, error) {
	path := fmt.Sprintf("/%s/%d/reviews", kind, id)
	q := pageQuery(1)
	q.Set("language", "en-US")
	body, err := c.doRequest(ctx, path, q)
	if err != nil {
		return nil, err
	}

	var resp listResponse[review]
	if err := c.decode(path, body, &resp); err != nil {
		return nil, err
	}
	return MapReviews(resp.Results), nil
}

// GetCredits returns the cast followed by the directors of a title
func (c *Client) GetCredits(ctx context.Context, kind domain.MediaKind, id int) ([]domain.CastMember, error) {
	path := fmt.Sprintf("/%s/%d/credits", kind, id)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp creditsResponse
	if err := c.decode(path, body, &resp); err != nil {
		return nil, err
	}
	return MapCredits(resp), nil
}

var _ domain.CatalogRepository = (*Client)(nil)
