package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultLanguage     = "tr-TR"
	defaultRegion       = "TR"
	maxResponseBytes    = 8 * 1024 * 1024
)

var (
	ErrMissingAPIKey = errors.New("tmdb api key is not configured")
	ErrNotFound      = errors.New("tmdb resource not found")
)

// StatusError is returned for non-2xx TMDB responses.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb returned %s: %s", e.Status, e.Body)
}

// Config configures a Client. Zero values fall back to the public TMDB API with
// Turkish locale.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Region       string
	Timeout      time.Duration
	CacheDir     string
	CacheTTL     time.Duration
	Fs           afero.Fs
	HTTPClient   *http.Client
	Attempts     uint
	RetryDelay   time.Duration
}

// Client is a read-only TMDB v3 client with a response cache.
type Client struct {
	apiKey     string
	baseURL    string
	imageBase  string
	language   string
	region     string
	httpc      *http.Client
	cache      *fileCache
	attempts   uint
	retryDelay time.Duration
}

func NewClient(cfg Config) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageBase := strings.TrimRight(cfg.ImageBaseURL, "/")
	if imageBase == "" {
		imageBase = defaultImageBaseURL
	}
	region := strings.ToUpper(strings.TrimSpace(cfg.Region))
	if region == "" {
		region = defaultRegion
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 300 * time.Millisecond
	}

	c := &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		imageBase:  imageBase,
		language:   normalizeLanguage(cfg.Language),
		region:     region,
		httpc:      httpc,
		attempts:   attempts,
		retryDelay: retryDelay,
	}
	if cfg.CacheDir != "" && cfg.CacheTTL > 0 {
		c.cache = newFileCache(cfg.Fs, cfg.CacheDir, cfg.CacheTTL)
	}
	return c
}

// Region is the watch-provider region this client reports.
func (c *Client) Region() string {
	return c.region
}

// PruneCache deletes expired cached responses. Entries are otherwise only
// removed when the same request is made again.
func (c *Client) PruneCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := c.cache.prune()
	if err != nil {
		return fmt.Errorf("prune tmdb cache: %w", err)
	}
	log.Printf("[tmdb] pruned %d expired cache entries", n)
	return nil
}

// normalizeLanguage canonicalises a language setting into the ll-CC form TMDB
// expects, inferring the region when only a language is given.
func normalizeLanguage(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return defaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return defaultLanguage
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	if region.String() == "ZZ" {
		return base.String()
	}
	return base.String() + "-" + region.String()
}

// get performs a GET against path and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("language", c.language)

	key := cacheKey(path, q.Encode())
	if c.cache != nil {
		if ok, _ := c.cache.get(key, v); ok {
			return nil
		}
	}

	logQuery := q.Encode()
	q.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	var body []byte
	err := retry.Do(
		func() error {
			log.Printf("[tmdb] GET %s?%s", path, logQuery)
			b, err := c.fetch(ctx, endpoint)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode tmdb %s: %w", path, err)
	}
	if c.cache != nil {
		if err := c.cache.set(key, json.RawMessage(body)); err != nil {
			log.Printf("[tmdb] cache write failed for %s: %v", path, err)
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func isRetryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return true
}
