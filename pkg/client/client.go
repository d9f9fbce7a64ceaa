package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/naveenspark/studyhall/pkg/domain"
)

const (
	pathNewAccount    = "/auth/new-account"
	pathNewSession    = "/auth/new-session"
	pathSessionExpire = "/auth/session-expire"

	maxBodySize = 1 << 20 // 1 MB
)

var (
	// ErrNoSession is returned by calls that need a session token when none
	// is stored.
	ErrNoSession = errors.New("no stored session")

	// ErrResponseTooLarge is returned when a response body exceeds 1 MB.
	ErrResponseTooLarge = errors.New("response too large")
)

// SessionStore is where the client keeps the session token.
type SessionStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Client is the studyhall auth API client.
type Client struct {
	baseURL    string
	store      SessionStore
	httpClient *http.Client
	logger     *zap.Logger

	inflight singleflight.Group
	mu       sync.Mutex
	flights  map[string]*flight
}

// flight is the context shared by the callers waiting on one coalesced
// request. It is cancelled once the last of them gives up.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client. baseURL is prepended verbatim to every path,
// so an empty baseURL yields relative targets like "/auth/new-account".
func New(baseURL string, store SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		store:   store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:  zap.NewNop(),
		flights: make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateAccount registers a new account and stores the returned session token
// under domain.SessionKey, replacing any previous token.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (domain.Session, error) {
	s, err := c.authenticate(ctx, pathNewAccount, domain.Credentials{Email: email, Password: password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("client.CreateAccount: %w", err)
	}
	return s, nil
}

// SignIn opens a session for an existing account and stores its token the
// same way CreateAccount does.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	s, err := c.authenticate(ctx, pathNewSession, domain.Credentials{Email: email, Password: password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("client.SignIn: %w", err)
	}
	return s, nil
}

// ExpireSession ends the stored session on the server and forgets it locally.
func (c *Client) ExpireSession(ctx context.Context) error {
	token, err := c.authorized()
	if err != nil {
		return fmt.Errorf("client.ExpireSession: %w", err)
	}
	if _, err := c.doJSON(ctx, http.MethodPost, pathSessionExpire, nil, token); err != nil {
		return fmt.Errorf("client.ExpireSession: %w", err)
	}
	if err := c.store.Delete(domain.SessionKey); err != nil {
		return fmt.Errorf("client.ExpireSession: forget session: %w", err)
	}
	return nil
}

// Session returns the stored session token, if any.
func (c *Client) Session() (domain.Session, bool, error) {
	id, ok, err := c.store.Get(domain.SessionKey)
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("client.Session: %w", err)
	}
	return domain.Session{ID: id}, ok, nil
}

// authenticate posts credentials and stores the issued token. Identical
// submissions already in flight share one request; each caller still waits
// on its own ctx.
func (c *Client) authenticate(ctx context.Context, path string, creds domain.Credentials) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	key := path + "\x00" + creds.Email + "\x00" + creds.Password
	fl := c.joinFlight(ctx, key)
	defer c.leaveFlight(key, fl)

	ch := c.inflight.DoChan(key, func() (any, error) {
		fields, err := c.doJSON(fl.ctx, http.MethodPost, path, creds, "")
		if err != nil {
			return domain.Session{}, err
		}
		return c.storeSession(path, fields)
	})

	select {
	case <-ctx.Done():
		return domain.Session{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("coalesced duplicate submission", zap.String("path", path))
		}
		if res.Err != nil {
			return domain.Session{}, res.Err
		}
		return res.Val.(domain.Session), nil
	}
}

// joinFlight registers a waiter for key. The shared context keeps the values
// of the first caller's ctx but not its cancellation.
func (c *Client) joinFlight(ctx context.Context, key string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()
	fl, ok := c.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		fl = &flight{ctx: fctx, cancel: cancel}
		c.flights[key] = fl
	}
	fl.waiters++
	return fl
}

// leaveFlight drops a waiter. The last one out cancels the shared request
// and forgets it so later callers start afresh.
func (c *Client) leaveFlight(key string, fl *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fl.waiters--
	if fl.waiters > 0 {
		return
	}
	fl.cancel()
	if c.flights[key] == fl {
		delete(c.flights, key)
		c.inflight.Forget(key)
	}
}

func (c *Client) storeSession(path string, fields map[string]json.RawMessage) (domain.Session, error) {
	raw, ok := fields[domain.SessionKey]
	var id string
	switch {
	case !ok:
		c.logger.Warn("response has no session id", zap.String("path", path))
	case json.Unmarshal(raw, &id) != nil:
		// Not a JSON string; keep its literal text.
		id = string(raw)
	}
	if err := c.store.Set(domain.SessionKey, id); err != nil {
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}
	return domain.Session{ID: id}, nil
}

// authorized returns the stored session token or ErrNoSession.
func (c *Client) authorized() (string, error) {
	s, ok, err := c.Session()
	if err != nil {
		return "", err
	}
	if !ok || s.ID == "" {
		return "", ErrNoSession
	}
	return s.ID, nil
}

// doJSON sends body, if any, as JSON. See doRequest.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, token string) (map[string]json.RawMessage, error) {
	if body == nil {
		return c.doRequest(ctx, method, path, "", nil, token)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	return c.doRequest(ctx, method, path, "application/json", bytes.NewReader(data), token)
}

// doRequest sends one request and parses the response body as JSON whatever
// the status. It returns the top-level fields of an object body (nil for
// other JSON values), a *ParseError for a body that is not JSON, or a
// *RequestError for a non-2xx status.
func (c *Client) doRequest(ctx context.Context, method, path, contentType string, body io.Reader, token string) (map[string]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
	)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	log.Info("response", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxBodySize {
		log.Warn("response body over limit", zap.Int("limit", maxBodySize))
		return nil, fmt.Errorf("read body (HTTP %d): %w", resp.StatusCode, ErrResponseTooLarge)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{StatusCode: resp.StatusCode, Err: err}
	}
	var fields map[string]json.RawMessage
	if _, isObject := doc.(map[string]any); isObject {
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, &ParseError{StatusCode: resp.StatusCode, Err: err}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Detail: fields["detail"]}
	}
	return fields, nil
}

// decodeField unmarshals the named top-level response field into v.
func decodeField(fields map[string]json.RawMessage, name string, v any) error {
	raw, ok := fields[name]
	if !ok {
		return fmt.Errorf("response has no %q field", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %q: %w", name, err)
	}
	return nil
}
