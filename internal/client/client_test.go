package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, message string, data, errBody any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"success": status < 300,
		"message": message,
		"data":    data,
		"error":   errBody,
	})
}

func TestClient_NoTokenFailsWithoutNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := New(srv.URL, &MemoryTokenStore{})
	_, err := c.ListNotes(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = c.CreateNote(context.Background(), NoteInput{Title: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, c.DeleteNote(context.Background(), "id"), ErrUnauthenticated)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_LoginStoresTokenAndSendsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@x.com", body["email"])
			writeEnvelope(w, 200, "login successful", map[string]any{
				"token": "tok-1",
				"user":  map[string]any{"id": "u1", "email": "a@x.com"},
			}, nil)
		case "/api/notes":
			assert.Equal(t, "tok-1", r.Header.Get(HeaderAuthToken))
			writeEnvelope(w, 200, "notes", []map[string]any{{"id": "n1", "title": "T", "color": "#f6d365"}}, nil)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	c := New(srv.URL, tokens)
	s, err := c.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.User.ID)
	assert.True(t, c.LoggedIn())

	notes, err := c.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "T", notes[0].Title)
}

func TestClient_UnauthorizedClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "session revoked", nil, map[string]string{"code": "Unauthorized"})
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	require.NoError(t, tokens.Save("stale"))
	c := New(srv.URL, tokens)

	_, err := c.ListNotes(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.True(t, IsCode(err, "Unauthorized"))
	assert.False(t, c.LoggedIn())
}

func TestClient_ErrorCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, "email already registered", nil, map[string]string{"code": "Conflict"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Signup(context.Background(), "a@x.com", "pw")
	assert.True(t, IsCode(err, "Conflict"))
	assert.Contains(t, err.Error(), "email already registered")
}

func TestClient_LogoutForgetsTokenEvenOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, "internal error", nil, nil)
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	require.NoError(t, tokens.Save("tok"))
	c := New(srv.URL, tokens)
	assert.Error(t, c.Logout(context.Background()))
	assert.False(t, c.LoggedIn())
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notekeeper", "token")
	s := FileTokenStore{Path: path}

	tok, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save("abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	tok, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}
