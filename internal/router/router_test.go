package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/notekeeper/config"
	"github.com/oksasatya/notekeeper/internal/container"
	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/internal/infrastructure/memory"
	"github.com/oksasatya/notekeeper/internal/interface/middleware"
	"github.com/oksasatya/notekeeper/pkg/helpers"
	"github.com/oksasatya/notekeeper/pkg/mailer/templates"
	"github.com/oksasatya/notekeeper/pkg/validation"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type app struct {
	engine *gin.Engine
	outbox *memory.Outbox
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()
	helpers.PasswordCost = bcrypt.MinCost
	container.Reset()
	t.Cleanup(container.Reset)

	outbox := &memory.Outbox{}
	reg := prometheus.NewRegistry()
	container.SetConfig(&config.Config{
		AppName:             "notekeeper",
		StoreDriver:         "memory",
		VerifyEmailURL:      "http://localhost:3000/verify-email",
		ResetPasswordURL:    "http://localhost:3000/reset-password",
		ESNotesIndex:        "notes",
		DebugMetricsEnabled: true,
	})
	container.SetLogger(helpers.NewDiscardLogger())
	container.SetJWT(helpers.NewJWTManager("router-secret", time.Hour))
	container.SetMailSender(outbox)
	container.SetMetricsRegistry(reg)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	registry := Build(r, BuildStores(), middleware.Metrics(middleware.NewHTTPMetrics(reg)))
	require.Equal(t, []string{"health", "auth", "notes", "debug"}, registry.Names())
	return &app{engine: r, outbox: outbox}
}

func (a *app) call(t *testing.T, method, path, token string, body any) (int, apiEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.HeaderAuthToken, token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	var env apiEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func TestEndToEnd_NoteLifecycle(t *testing.T) {
	a := newApp(t)

	status, _ := a.call(t, http.MethodPost, "/api/auth/signup", "", gin.H{"email": "A@X.com ", "password": "pw"})
	require.Equal(t, http.StatusOK, status)

	token := a.outbox.LastToken(templates.VerifyEmail)
	require.NotEmpty(t, token)
	status, _ = a.call(t, http.MethodGet, "/api/auth/verify-email?token="+token, "", nil)
	require.Equal(t, http.StatusOK, status)

	status, env := a.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@x.com", "password": "pw"})
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	session := login.Token

	status, env = a.call(t, http.MethodPost, "/api/notes", session, gin.H{"title": "T"})
	require.Equal(t, http.StatusOK, status)
	var created struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Color string `json:"color"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "T", created.Title)
	assert.True(t, entity.InPalette(created.Color))

	status, env = a.call(t, http.MethodGet, "/api/notes", session, nil)
	require.Equal(t, http.StatusOK, status)
	var listed []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	status, _ = a.call(t, http.MethodDelete, "/api/notes/"+created.ID, session, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = a.call(t, http.MethodGet, "/api/notes", session, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, _ = a.call(t, http.MethodPost, "/api/auth/logout", session, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = a.call(t, http.MethodGet, "/api/auth/me", session, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEndToEnd_DuplicateSignup(t *testing.T) {
	a := newApp(t)
	status, _ := a.call(t, http.MethodPost, "/api/auth/signup", "", gin.H{"email": "a@x.com", "password": "pw"})
	require.Equal(t, http.StatusOK, status)

	status, env := a.call(t, http.MethodPost, "/api/auth/signup", "", gin.H{"email": "a@x.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"code":"Conflict"}`, string(env.Error))
}

func TestEndToEnd_NotesNeedSession(t *testing.T) {
	a := newApp(t)
	status, env := a.call(t, http.MethodGet, "/api/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = a.call(t, http.MethodGet, "/api/notes", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEndToEnd_ExportWithoutBucket(t *testing.T) {
	a := newApp(t)
	a.call(t, http.MethodPost, "/api/auth/signup", "", gin.H{"email": "a@x.com", "password": "pw"})
	_, env := a.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@x.com", "password": "pw"})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	status, env := a.call(t, http.MethodPost, "/api/notes/export", login.Token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.JSONEq(t, `{"code":"ExportUnavailable"}`, string(env.Error))
}

func TestHealthAndMetrics(t *testing.T) {
	a := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API running", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API running", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	w = httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
