package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/okian/kickout/internal/adapters/http/api"
	service "github.com/okian/kickout/internal/app"
	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/prediction"
)

// Client talks to a board over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient returns a client for the board at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Setups is the board configuration returned by GET /setups.
type Setups struct {
	Setups      []string `json:"setups"`
	PlayerCount int      `json:"player_count"`
	ClearPrompt string   `json:"clear_prompt"`
}

// StatusError is a non-success response from the board.
type StatusError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap makes errors.Is(err, ErrRequest) hold for status errors.
func (e *StatusError) Unwrap() error { return ErrRequest }

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// State fetches the board snapshot.
func (c *Client) State(ctx context.Context) (service.Snapshot, error) {
	var s service.Snapshot
	err := c.do(ctx, http.MethodGet, "/state", nil, nil, &s)
	return s, err
}

// Setups fetches the setup suggestions and player count.
func (c *Client) Setups(ctx context.Context) (Setups, error) {
	var s Setups
	err := c.do(ctx, http.MethodGet, "/setups", nil, nil, &s)
	return s, err
}

// ToggleHalf flips the board half.
func (c *Client) ToggleHalf(ctx context.Context) (service.Snapshot, error) {
	var s service.Snapshot
	err := c.do(ctx, http.MethodPost, "/half/toggle", nil, nil, &s)
	return s, err
}

// Clear wipes the board with confirmation.
func (c *Client) Clear(ctx context.Context) (service.Snapshot, error) {
	var s service.Snapshot
	err := c.do(ctx, http.MethodDelete, "/kickouts?confirm=true", nil, nil, &s)
	return s, err
}

// Submit posts one kickout under a fresh idempotency key.
func (c *Client) Submit(ctx context.Context, k Kickout) (service.RecordResult, error) {
	var res service.RecordResult
	headers := map[string]string{api.IdempotencyHeader: uuid.NewString()}
	err := c.do(ctx, http.MethodPost, "/kickouts", k, headers, &res)
	return res, err
}

// Log fetches the whole kickout log.
func (c *Client) Log(ctx context.Context) ([]model.Record, error) {
	var log []model.Record
	err := c.do(ctx, http.MethodGet, "/kickouts", nil, nil, &log)
	return log, err
}

// Prediction fetches the board prediction for call and setup.
func (c *Client) Prediction(ctx context.Context, call, setup string) (prediction.Result, error) {
	var res prediction.Result
	q := url.Values{"call": {call}, "setup": {setup}}
	err := c.do(ctx, http.MethodGet, "/prediction?"+q.Encode(), nil, nil, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal: %w", ErrRequest, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrRequest, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		se := &StatusError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, se)
		return se
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: decode %s: %w", ErrRequest, path, err)
		}
	}
	return nil
}
