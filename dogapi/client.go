package dogapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jonwraymond/breedfetch/breed"
	"github.com/jonwraymond/breedfetch/observe"
	"github.com/jonwraymond/breedfetch/resilience"
)

// DefaultBaseURL is the public dog.ceo API root.
const DefaultBaseURL = "https://dog.ceo/api"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the API root without trailing slash.
	// Default: DefaultBaseURL
	BaseURL string

	// HTTPClient is the HTTP client to use for requests.
	// If nil, a default client with 30s timeout is used.
	HTTPClient *http.Client

	// Token, when set, is sent as a bearer token.
	Token string

	// Fallback answers lookups the catalog could not.
	// Default: DefaultFallback()
	Fallback *breed.StaticFetcher

	// DisableFallback turns the fallback table off entirely.
	DisableFallback bool

	// Executor guards every lookup request. Nil runs requests unguarded.
	Executor *resilience.Executor

	// Logger receives failure causes. Nil discards them.
	Logger observe.Logger
}

// Client fetches sub-breeds from the dog.ceo catalog.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: SubBreeds fails only with *breed.NotFoundError.
//   - Ownership: returned slices are owned by the caller.
//   - Fallback: any failed catalog call, canceled and timed-out ones
//     included, is answered from the fallback table when it knows the
//     breed. Such an answer is a success, so a breed.CachingFetcher in front
//     of the client keeps it like a catalog answer for its whole lifetime.
type Client struct {
	baseURL  string
	http     *http.Client
	token    string
	fallback *breed.StaticFetcher
	executor *resilience.Executor
	logger   observe.Logger
}

// New creates a catalog client.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	if config.Fallback == nil && !config.DisableFallback {
		config.Fallback = DefaultFallback()
	}
	if config.DisableFallback {
		config.Fallback = nil
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}

	return &Client{
		baseURL:  strings.TrimRight(config.BaseURL, "/"),
		http:     config.HTTPClient,
		token:    config.Token,
		fallback: config.Fallback,
		executor: config.Executor,
		logger:   config.Logger,
	}
}

// DefaultFallback returns the built-in offline table.
func DefaultFallback() *breed.StaticFetcher {
	return breed.NewStaticFetcher(map[string][]string{
		"hound": {"afghan", "basset", "blood", "english", "ibizan", "plott", "walker"},
	})
}

// SubBreeds asks the catalog for the sub-breeds of name.
func (c *Client) SubBreeds(ctx context.Context, name breed.Name) ([]string, error) {
	v, ok := name.Value()
	if !ok {
		return nil, breed.NotFound(name)
	}
	key := strings.ToLower(v)

	r, err := resilience.Call(ctx, c.executor, func(ctx context.Context) (reply, error) {
		return c.lookup(ctx, key)
	})
	if err == nil {
		err = r.err
	}
	if err == nil {
		return r.subs, nil
	}

	c.logger.Debug(ctx, "catalog lookup failed",
		observe.Field{Key: "breed", Value: v},
		observe.Field{Key: "error", Value: err.Error()},
	)

	if c.fallback != nil {
		if subs, ok := c.fallback.Lookup(name); ok {
			c.logger.Info(ctx, "serving breed from fallback table", observe.Field{Key: "breed", Value: v})
			return subs, nil
		}
	}
	return nil, breed.NotFound(name)
}

// Ping checks that the catalog answers its breed index. It bypasses the
// executor so an open circuit does not hide a recovered catalog.
func (c *Client) Ping(ctx context.Context) error {
	doc, err := c.get(ctx, c.baseURL+"/breeds/list/all")
	if err != nil {
		return err
	}
	return checkStatus(doc)
}

// reply is a catalog answer. A non-success status is carried in err rather
// than returned as an error, so it does not count against the circuit
// breaker.
type reply struct {
	subs []string
	err  error
}

func (c *Client) lookup(ctx context.Context, key string) (reply, error) {
	doc, err := c.get(ctx, c.baseURL+"/breed/"+url.PathEscape(key)+"/list")
	if err != nil {
		return reply{}, err
	}
	if err := checkStatus(doc); err != nil {
		return reply{err: err}, nil
	}

	subs := []string{}
	if message := doc.Get("message"); message.IsArray() {
		for _, item := range message.Array() {
			subs = append(subs, item.String())
		}
	}
	return reply{subs: subs}, nil
}

// get performs a GET and returns the parsed JSON document. 4xx responses
// other than 429 carry a regular catalog document and are returned as-is.
func (c *Client) get(ctx context.Context, target string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("fetch %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return gjson.Result{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrMalformedResponse
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return gjson.Result{}, ErrMalformedResponse
	}
	return doc, nil
}

func checkStatus(doc gjson.Result) error {
	status := doc.Get("status").String()
	if strings.EqualFold(status, "success") {
		return nil
	}
	if msg := doc.Get("message"); msg.Type == gjson.String {
		return fmt.Errorf("%w: %s: %s", ErrCatalogStatus, status, msg.String())
	}
	return fmt.Errorf("%w: %q", ErrCatalogStatus, status)
}

var _ breed.Fetcher = (*Client)(nil)
