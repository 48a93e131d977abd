// Package remote talks to the pomflow sync server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"pomflow/internal/model"
	"pomflow/internal/syncapi"
)

// HistoryPullLimit matches the server's maximum page size.
const HistoryPullLimit = 500

// Client calls the sync API. A Client without a token can only register and
// log in.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client for the given address or URL.
func NewClient(addr, token string) *Client {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{baseURL: baseURL, token: token, client: &http.Client{Timeout: 30 * time.Second}}
}

// WithToken returns a copy of c that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	copied := *c
	copied.token = token
	return &copied
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*syncapi.AuthResponse, error) {
	var response syncapi.AuthResponse
	req := syncapi.RegisterRequest{Email: email, Password: password, Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*syncapi.AuthResponse, error) {
	var response syncapi.AuthResponse
	req := syncapi.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Me returns the account the token belongs to.
func (c *Client) Me(ctx context.Context) (*syncapi.User, error) {
	var response syncapi.UserEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &response); err != nil {
		return nil, err
	}
	return &response.User, nil
}

func (c *Client) PutSettings(ctx context.Context, settings model.Settings) error {
	body := syncapi.SettingsEnvelope{Settings: syncapi.SettingsToRow(settings)}
	return c.do(ctx, http.MethodPut, "/api/settings", body, nil)
}

func (c *Client) GetSettings(ctx context.Context) (model.Settings, bool, error) {
	var response syncapi.SettingsEnvelope
	err := c.do(ctx, http.MethodGet, "/api/settings", nil, &response)
	if IsNotFound(err) {
		return model.Settings{}, false, nil
	}
	if err != nil {
		return model.Settings{}, false, err
	}
	return response.Settings.Settings(), true, nil
}

func (c *Client) ReplaceTasks(ctx context.Context, tasks []model.Task) error {
	body := syncapi.TasksEnvelope{Tasks: syncapi.TaskRows(tasks)}
	return c.do(ctx, http.MethodPut, "/api/tasks", body, nil)
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var response syncapi.TasksEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &response); err != nil {
		return nil, err
	}
	return syncapi.Tasks(response.Tasks), nil
}

func (c *Client) ReplaceHistory(ctx context.Context, entries []model.HistoryEntry) error {
	body := syncapi.HistoryEnvelope{History: syncapi.HistoryRows(entries)}
	return c.do(ctx, http.MethodPut, "/api/history", body, nil)
}

func (c *Client) AppendHistory(ctx context.Context, entry model.HistoryEntry) error {
	body := syncapi.HistoryEntryEnvelope{Entry: syncapi.HistoryToRow(entry)}
	return c.do(ctx, http.MethodPost, "/api/history", body, nil)
}

func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/history", nil, nil)
}

// ListHistory returns the newest HistoryPullLimit entries in completion
// order.
func (c *Client) ListHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	var response syncapi.HistoryEnvelope
	path := "/api/history?limit=" + strconv.Itoa(HistoryPullLimit)
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	entries := syncapi.History(response.History)
	slices.Reverse(entries)
	return entries, nil
}

func (c *Client) PutSession(ctx context.Context, session model.Session) error {
	body := syncapi.SessionEnvelope{Session: syncapi.SessionToRow(session)}
	return c.do(ctx, http.MethodPut, "/api/session", body, nil)
}

func (c *Client) GetSession(ctx context.Context) (model.Session, bool, error) {
	var response syncapi.SessionEnvelope
	err := c.do(ctx, http.MethodGet, "/api/session", nil, &response)
	if IsNotFound(err) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, err
	}
	return response.Session.Session(), true, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readErrorResponse(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("sync server: %s", e.Message)
	}
	return fmt.Sprintf("sync server: %s (%s)", e.Message, e.Code)
}

func IsNotFound(err error) bool {
	var remoteErr *Error
	return errors.As(err, &remoteErr) && remoteErr.Status == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	var remoteErr *Error
	return errors.As(err, &remoteErr) && remoteErr.Status == http.StatusUnauthorized
}

func readErrorResponse(resp *http.Response) error {
	remoteErr := &Error{Status: resp.StatusCode, Message: resp.Status}
	var payload syncapi.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error.Message != "" {
		remoteErr.Code = payload.Error.Code
		remoteErr.Message = payload.Error.Message
	}
	return remoteErr
}
