// Package api implements the JSON/HTTPS client for the money-tracking REST
// API. Every authenticated call carries a bearer token; HTTP 200 is the only
// success status and anything else is treated uniformly as failure. The
// client performs no retries: each failed call is terminal for that one
// invocation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"moneytrack/internal/core"
	"moneytrack/internal/log"
)

// ErrUnexpectedStatus marks any non-200 response.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// TokenSource supplies the bearer token for authenticated calls. The session
// layer implements it; tests use a fixed string.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource around a fixed token.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *log.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The default has no
// timeout: a hung request hangs until the network stack errs, matching the
// behavior callers are written against.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger.WithComponent(log.ComponentAPI) }
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  log.New(log.Config{Component: log.ComponentAPI}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// movementBody is the create/update request payload: the draft with amount
// coerced to an integer and the owner injected from the session.
type movementBody struct {
	Kind         core.Kind     `json:"type"`
	Concept      string        `json:"concept"`
	Counterparty string        `json:"entity,omitempty"`
	Category     core.Category `json:"category"`
	Amount       int64         `json:"amount"`
	UserID       string        `json:"userId"`
}

func newMovementBody(draft core.Draft, userID string) (movementBody, error) {
	amount, err := core.ParseAmount(draft.Amount)
	if err != nil {
		return movementBody{}, fmt.Errorf("parse amount: %w", err)
	}
	return movementBody{
		Kind:         draft.Kind,
		Concept:      draft.Concept,
		Counterparty: draft.Counterparty,
		Category:     draft.Category,
		Amount:       amount,
		UserID:       userID,
	}, nil
}

// ListMovements fetches one page of movements for the user, narrowed by the
// filter, in server-provided order.
func (c *Client) ListMovements(ctx context.Context, resource core.Resource, userID string, page, limit int, filter core.FilterSpec) ([]core.Movement, error) {
	if !resource.Valid() {
		return nil, fmt.Errorf("list movements: invalid resource %q", resource)
	}
	q := filter.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, resource, url.PathEscape(userID), q.Encode())
	var movements []core.Movement
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &movements); err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}
	return movements, nil
}

// CreateMovement persists a draft and returns the canonical server record,
// ID and creation timestamp included.
func (c *Client) CreateMovement(ctx context.Context, resource core.Resource, draft core.Draft, userID string) (core.Movement, error) {
	body, err := newMovementBody(draft, userID)
	if err != nil {
		return core.Movement{}, fmt.Errorf("create %s: %w", resource, err)
	}
	endpoint := fmt.Sprintf("%s/%s/", c.baseURL, resource)
	var created core.Movement
	if err := c.do(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return core.Movement{}, fmt.Errorf("create %s: %w", resource, err)
	}
	return created, nil
}

// UpdateMovement replaces the record identified by id and returns the server
// response.
func (c *Client) UpdateMovement(ctx context.Context, resource core.Resource, id string, draft core.Draft, userID string) (core.Movement, error) {
	body, err := newMovementBody(draft, userID)
	if err != nil {
		return core.Movement{}, fmt.Errorf("update %s: %w", resource, err)
	}
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, resource, url.PathEscape(id))
	var updated core.Movement
	if err := c.do(ctx, http.MethodPut, endpoint, body, &updated); err != nil {
		return core.Movement{}, fmt.Errorf("update %s: %w", resource, err)
	}
	return updated, nil
}

// DeleteMovement removes the record identified by id.
func (c *Client) DeleteMovement(ctx context.Context, resource core.Resource, id string) error {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, resource, url.PathEscape(id))
	if err := c.do(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	return nil
}

// Balance fetches the server-side aggregate sum for one kind. Superseded by
// the in-memory sums where the full list is loaded, but still the cheap path
// when it is not.
func (c *Client) Balance(ctx context.Context, kind core.Kind, userID string) (int64, error) {
	resource, err := kind.Resource()
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	endpoint := fmt.Sprintf("%s/%s/balance/%s/%s", c.baseURL, resource, kind, url.PathEscape(userID))
	var total int64
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &total); err != nil {
		return 0, fmt.Errorf("balance %s: %w", kind, err)
	}
	return total, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Request failed",
			log.FieldMethod, method,
			log.FieldURL, endpoint,
			log.FieldError, err.Error())
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "Unexpected response status",
			log.FieldMethod, method,
			log.FieldURL, endpoint,
			log.FieldStatusCode, resp.StatusCode)
		return fmt.Errorf("%s %s: status %d: %w", method, endpoint, resp.StatusCode, ErrUnexpectedStatus)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
