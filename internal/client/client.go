// Package client talks to the notekeeper HTTP API and keeps the local session and board state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HeaderAuthToken carries the raw session token on authenticated calls.
const HeaderAuthToken = "x-auth-token"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteInput is the body of create and update calls.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   string `json:"color,omitempty"`
	Pinned  bool   `json:"pinned"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// Client is a thin wrapper over the /api routes.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenStore
}

// New returns a client for baseURL (e.g. http://localhost:5000).
func New(baseURL string, tokens TokenStore) *Client {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Tokens:  tokens,
	}
}

// LoggedIn reports whether a session token is stored.
func (c *Client) LoggedIn() bool {
	tok, err := c.Tokens.Load()
	return err == nil && tok != ""
}

func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	return c.ack(ctx, http.MethodPost, "/api/auth/signup", map[string]string{"email": email, "password": password})
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	return c.ack(ctx, http.MethodGet, "/api/auth/verify-email?token="+url.QueryEscape(token), nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.ack(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": email})
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	return c.ack(ctx, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": token, "password": password})
}

// Login stores the returned session token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/login", false, map[string]string{"email": email, "password": password}, &s); err != nil {
		return nil, err
	}
	if err := c.Tokens.Save(s.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &s, nil
}

// Logout revokes the session server-side and always forgets the local token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", true, nil, nil)
	if cerr := c.Tokens.Clear(); err == nil {
		err = cerr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if _, err := c.do(ctx, http.MethodGet, "/api/auth/me", true, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	_, err := c.do(ctx, http.MethodGet, "/api/notes", true, nil, &notes)
	return notes, err
}

func (c *Client) SearchNotes(ctx context.Context, q string) ([]Note, error) {
	var notes []Note
	_, err := c.do(ctx, http.MethodGet, "/api/notes/search?q="+url.QueryEscape(q), true, nil, &notes)
	return notes, err
}

func (c *Client) GetNote(ctx context.Context, id string) (*Note, error) {
	var n Note
	if _, err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), true, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	var n Note
	if _, err := c.do(ctx, http.MethodPost, "/api/notes", true, in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, in NoteInput) (*Note, error) {
	var n Note
	if _, err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), true, in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), true, nil, nil)
	return err
}

// ExportNotes returns the URL of the uploaded export.
func (c *Client) ExportNotes(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	_, err := c.do(ctx, http.MethodPost, "/api/notes/export", true, nil, &out)
	return out.URL, err
}

func (c *Client) ack(ctx context.Context, method, path string, body any) (string, error) {
	return c.do(ctx, method, path, false, body, nil)
}

// do sends one request, decodes the envelope's data into out and returns the message.
func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any) (string, error) {
	var token string
	if authed {
		tok, err := c.Tokens.Load()
		if err != nil {
			return "", fmt.Errorf("load token: %w", err)
		}
		if tok == "" {
			return "", ErrUnauthenticated
		}
		token = tok
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return "", err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(HeaderAuthToken, token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()

	var env envelope
	raw, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return "", err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && res.StatusCode < 300 {
			return "", fmt.Errorf("decode response: %w", err)
		}
	}

	if res.StatusCode >= 300 {
		if res.StatusCode == http.StatusUnauthorized && authed {
			_ = c.Tokens.Clear()
		}
		apiErr := &APIError{Status: res.StatusCode, Message: env.Message}
		var eb struct {
			Code string `json:"code"`
		}
		if len(env.Error) > 0 && json.Unmarshal(env.Error, &eb) == nil {
			apiErr.Code = eb.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		return "", apiErr
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Message, nil
}
