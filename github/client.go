package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/BjornMelin/contribux-sub005/auth"
	"github.com/BjornMelin/contribux-sub005/cache"
	"github.com/BjornMelin/contribux-sub005/gherrors"
	"github.com/BjornMelin/contribux-sub005/health"
	"github.com/BjornMelin/contribux-sub005/observe"
	"github.com/BjornMelin/contribux-sub005/ratelimit"
	"github.com/BjornMelin/contribux-sub005/resilience"
)

// ErrNilAuth is returned by New when no auth config is supplied.
var ErrNilAuth = errors.New("github: auth config is required")

// Options configures a Client. Only Auth is required.
type Options struct {
	// Auth is the active credential material. Required; validated at
	// construction and immutable afterwards.
	Auth auth.Config

	// BaseURL is the REST API root.
	// Default: https://api.github.com
	BaseURL string

	// UserAgent is sent with every request.
	// Default: contribux
	UserAgent string

	// Transport sends the wire calls. Default: HTTP-backed transport.
	Transport Transport

	// Emitter consumes dispatch events. Default: discard.
	Emitter observe.Emitter

	// Retry overrides the default retry policy.
	Retry *resilience.RetryPolicy

	// Breaker overrides the default per-target breaker config.
	Breaker *resilience.BreakerConfig

	// Timeout bounds each individual transport attempt.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxConcurrent caps in-flight transport calls.
	// Default: 64
	MaxConcurrent int

	// Cache configures the read-path cache.
	Cache CacheOptions

	// RateLimit configures quota gating.
	RateLimit ratelimit.Config
}

// CacheOptions configures the client's read cache.
type CacheOptions struct {
	// MaxEntries bounds the LRU store.
	// Default: 1000
	MaxEntries int

	// DefaultTTL applies to responses without an explicit lifetime.
	// Default: 5 minutes
	DefaultTTL time.Duration
}

// Client is the caller-facing entry point. It owns all mutable state;
// no package-level singletons, so independent clients never share
// quota, cache, or breaker state.
type Client struct {
	baseURL   string
	host      string
	userAgent string

	authConfig auth.Config
	tokens     auth.TokenSource

	transport Transport
	cache     *cache.Manager
	keyer     cache.Keyer
	limits    *ratelimit.Coordinator
	executor  *resilience.Executor
	emitter   observe.Emitter

	rest *Rest

	now func() time.Time
}

// New constructs a Client, validating the auth material eagerly.
func New(opts Options) (*Client, error) {
	if opts.Auth == nil {
		return nil, ErrNilAuth
	}
	// Invalid material still yields a constructable client: dispatches
	// fail with authentication errors and ValidateRuntime reports the
	// problem.
	tokens, err := auth.NewTokenSource(opts.Auth)
	if err != nil {
		tokens = auth.FailingTokenSource(err)
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("github: invalid base URL: %w", err)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "contribux"
	}

	transport := opts.Transport
	if transport == nil {
		transport = NewHTTPTransport(nil)
	}

	emitter := opts.Emitter
	if emitter == nil {
		emitter = observe.NopEmitter{}
	}

	store := cache.NewMemoryStore(opts.Cache.MaxEntries)
	manager, err := cache.NewManager(cache.ManagerConfig{
		Store:      store,
		DefaultTTL: opts.Cache.DefaultTTL,
	})
	if err != nil {
		return nil, err
	}

	retryPolicy := resilience.RetryPolicy{}
	if opts.Retry != nil {
		retryPolicy = *opts.Retry
	}
	breakerConfig := resilience.BreakerConfig{}
	if opts.Breaker != nil {
		breakerConfig = *opts.Breaker
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 64
	}

	executor := resilience.NewExecutor(
		resilience.WithBreakers(resilience.NewBreakerSet(breakerConfig)),
		resilience.WithRetry(resilience.NewRetry(retryPolicy)),
		resilience.WithTimeout(resilience.NewTimeout(opts.Timeout)),
		resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: maxConcurrent})),
	)

	c := &Client{
		baseURL:    baseURL,
		host:       parsed.Host,
		userAgent:  userAgent,
		authConfig: opts.Auth,
		tokens:     tokens,
		transport:  transport,
		cache:      manager,
		keyer:      cache.NewDefaultKeyer(),
		limits:     ratelimit.NewCoordinator(opts.RateLimit),
		executor:   executor,
		emitter:    emitter,
		now:        time.Now,
	}
	c.rest = &Rest{
		Repositories: &RepositoryService{client: c},
		Issues:       &IssueService{client: c},
		PullRequests: &PullRequestService{client: c},
		Users:        &UserService{client: c},
	}
	return c, nil
}

// Rest groups the domain services.
type Rest struct {
	Repositories *RepositoryService
	Issues       *IssueService
	PullRequests *PullRequestService
	Users        *UserService
}

// Rest returns the domain services.
func (c *Client) Rest() *Rest { return c.rest }

// RateLimitStatus snapshots every quota bucket.
func (c *Client) RateLimitStatus() map[ratelimit.Bucket]ratelimit.State {
	return c.limits.Status()
}

// ClearCache drops every cached response.
func (c *Client) ClearCache(ctx context.Context) {
	c.cache.Clear(ctx)
}

// call is one dispatch through the pipeline.
type call struct {
	method    string
	path      string
	params    map[string]string
	body      []byte
	validator string
}

// dispatchState is the per-dispatch bookkeeping shared across retry
// attempts. An attempt abandoned by its timeout may still be running
// when the next attempt starts, so every write goes through the mutex
// and a superseded attempt never publishes its result.
type dispatchState struct {
	mu       sync.Mutex
	attempts int
	result   *cache.FetchResult
}

func (s *dispatchState) begin() {
	s.mu.Lock()
	s.attempts++
	s.mu.Unlock()
}

func (s *dispatchState) publish(res *cache.FetchResult) {
	s.mu.Lock()
	s.result = res
	s.mu.Unlock()
}

func (s *dispatchState) snapshot() (*cache.FetchResult, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.attempts
}

// bucketFor routes a path to its quota bucket.
func bucketFor(path string) ratelimit.Bucket {
	switch {
	case path == "/graphql":
		return ratelimit.BucketGraphQL
	case strings.HasPrefix(path, "/search"):
		return ratelimit.BucketSearch
	default:
		return ratelimit.BucketCore
	}
}

// get serves a read through the cache. Fresh entries never reach the
// transport; stale entries with a validator are revalidated; concurrent
// misses on the same key coalesce into one transport call.
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	key := c.keyer.Key(http.MethodGet, path, params)
	start := c.now()
	st := &dispatchState{}

	res, err := c.cache.GetOrFetch(ctx, key, func(ctx context.Context, validator string) (*cache.FetchResult, error) {
		return c.fetch(ctx, &call{
			method:    http.MethodGet,
			path:      path,
			params:    params,
			validator: validator,
		}, st)
	})

	_, attempts := st.snapshot()
	c.emit(ctx, start, attempts, res.CacheHit, err)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// do dispatches a write, bypassing the read cache, and invalidates
// every cached read addressing the paths the mutation touched.
func (c *Client) do(ctx context.Context, method, path string, payload any, invalidate ...string) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, gherrors.Wrap(gherrors.TagValidation, "encode request body", err)
		}
	}

	start := c.now()
	st := &dispatchState{}
	result, err := c.fetch(ctx, &call{method: method, path: path, body: body}, st)
	_, attempts := st.snapshot()
	c.emit(ctx, start, attempts, false, err)
	if err != nil {
		return nil, err
	}

	for _, p := range invalidate {
		c.cache.InvalidateResource(ctx, c.keyer.ResourcePrefix(p))
	}
	return result.Value, nil
}

// fetch runs one call through rate limiting, resilience, transport,
// and classification. The quota reservation is taken per attempt and
// released when the transport is never reached or fails before a
// response, so abandoned calls consume nothing.
func (c *Client) fetch(ctx context.Context, cl *call, st *dispatchState) (*cache.FetchResult, error) {
	bucket := bucketFor(cl.path)

	err := c.executor.Execute(ctx, c.host, func(ctx context.Context) error {
		st.begin()

		release, err := c.limits.CheckAndReserve(ctx, bucket)
		if err != nil {
			return err
		}

		req, err := c.newRequest(ctx, cl)
		if err != nil {
			release()
			return err
		}

		resp, err := c.transport.Do(ctx, req)
		if err != nil {
			release()
			return gherrors.Classify(nil, err)
		}

		// Server-reported quota is authoritative even for an attempt
		// that overran its time bound; the call did consume it.
		c.limits.UpdateFromResponse(bucket, resp.Headers)

		// An attempt abandoned while the transport was in flight no
		// longer owns the dispatch; a newer attempt may already have
		// published. Its late response is dropped.
		if ctx.Err() != nil {
			return gherrors.Classify(nil, ctx.Err())
		}

		switch {
		case resp.Status == http.StatusNotModified:
			st.publish(&cache.FetchResult{NotModified: true})
			return nil
		case resp.Status >= 200 && resp.Status < 300:
			st.publish(&cache.FetchResult{
				Value: resp.Body,
				ETag:  resp.Headers.Get("ETag"),
			})
			return nil
		default:
			return gherrors.Classify(&gherrors.TransportResult{
				Status:  resp.Status,
				Headers: resp.Headers,
				Body:    resp.Body,
			}, nil)
		}
	})
	if err != nil {
		return nil, err
	}
	result, _ := st.snapshot()
	return result, nil
}

// newRequest materializes the wire request, attaching credentials and
// the conditional validator.
func (c *Client) newRequest(ctx context.Context, cl *call) (*Request, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, gherrors.Wrap(gherrors.TagAuthentication, "obtain credential", err)
	}

	u := c.baseURL + cl.path
	if len(cl.params) > 0 {
		q := url.Values{}
		for k, v := range cl.params {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}

	headers := http.Header{}
	headers.Set("Accept", "application/vnd.github+json")
	headers.Set("User-Agent", c.userAgent)
	headers.Set("Authorization", c.tokens.Scheme()+" "+token)
	if cl.validator != "" {
		headers.Set("If-None-Match", cl.validator)
	}
	if len(cl.body) > 0 {
		headers.Set("Content-Type", "application/json")
	}

	return &Request{
		Method:  cl.method,
		URL:     u,
		Headers: headers,
		Body:    cl.body,
	}, nil
}

// emit publishes the dispatch event for one caller-visible call.
func (c *Client) emit(ctx context.Context, start time.Time, attempts int, cacheHit bool, err error) {
	ev := observe.Event{
		Target:       c.host,
		Attempt:      attempts,
		Outcome:      "success",
		Latency:      c.now().Sub(start),
		CacheHit:     cacheHit,
		BreakerState: c.executor.BreakerState(c.host).String(),
	}
	if err != nil {
		ev.Outcome = "failure"
		ev.ErrorTag = gherrors.TagOf(err).String()
	}
	c.emitter.Emit(ctx, ev)
}

// getJSON reads through the cache and decodes into v.
func (c *Client) getJSON(ctx context.Context, path string, params map[string]string, v any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return gherrors.Wrap(gherrors.TagUnknown, "decode response", err)
	}
	return nil
}

// doJSON dispatches a write and decodes the response into v when v is
// non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, v any, invalidate ...string) error {
	body, err := c.do(ctx, method, path, payload, invalidate...)
	if err != nil {
		return err
	}
	if v == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return gherrors.Wrap(gherrors.TagUnknown, "decode response", err)
	}
	return nil
}

// ValidateRuntime runs the startup self-checks: configuration,
// credential material plus one authenticated probe, supporting
// collaborators, and raw connectivity.
func (c *Client) ValidateRuntime(ctx context.Context) health.Report {
	v := health.NewValidator()
	v.Register(health.NewEnvironmentChecker(map[string]string{
		"base_url":   c.baseURL,
		"user_agent": c.userAgent,
		"auth_kind":  c.authConfig.Kind(),
	}))
	v.Register(health.NewAuthenticationChecker(c.authConfig, c.authProbe))
	v.Register(health.NewDependenciesChecker(map[string]func(ctx context.Context) error{
		"cache":   c.cacheProbe,
		"breaker": c.breakerProbe,
	}))
	v.Register(health.NewConnectivityChecker(c.connectivityProbe))
	return v.Validate(ctx)
}

// authProbe makes one lightweight authenticated call. The rate-limit
// endpoint does not consume quota.
func (c *Client) authProbe(ctx context.Context) error {
	req, err := c.newRequest(ctx, &call{method: http.MethodGet, path: "/rate_limit"})
	if err != nil {
		return err
	}
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return gherrors.Classify(nil, err)
	}
	c.limits.UpdateFromResponse(ratelimit.BucketCore, resp.Headers)
	if resp.Status >= 400 {
		return gherrors.Classify(&gherrors.TransportResult{
			Status:  resp.Status,
			Headers: resp.Headers,
			Body:    resp.Body,
		}, nil)
	}
	return nil
}

// connectivityProbe makes one unauthenticated call.
func (c *Client) connectivityProbe(ctx context.Context) error {
	headers := http.Header{}
	headers.Set("User-Agent", c.userAgent)
	resp, err := c.transport.Do(ctx, &Request{
		Method:  http.MethodGet,
		URL:     c.baseURL + "/zen",
		Headers: headers,
	})
	if err != nil {
		return gherrors.Classify(nil, err)
	}
	if resp.Status >= 500 {
		return gherrors.Classify(&gherrors.TransportResult{
			Status:  resp.Status,
			Headers: resp.Headers,
			Body:    resp.Body,
		}, nil)
	}
	return nil
}

// cacheProbe exercises a store write/remove roundtrip.
func (c *Client) cacheProbe(ctx context.Context) error {
	const key = "gh:PROBE:/internal/health#0000000000000000"
	c.cache.Put(ctx, key, []byte("ok"), time.Second, "")
	c.cache.Invalidate(ctx, key)
	return nil
}

// breakerProbe reports an open breaker for the API host as a failing
// dependency.
func (c *Client) breakerProbe(context.Context) error {
	if state := c.executor.BreakerState(c.host); state == resilience.StateOpen {
		return fmt.Errorf("circuit breaker for %s is %s", c.host, state)
	}
	return nil
}
