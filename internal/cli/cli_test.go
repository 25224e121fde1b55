package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/notekeeper/config"
	"github.com/oksasatya/notekeeper/internal/client"
	"github.com/oksasatya/notekeeper/internal/container"
	"github.com/oksasatya/notekeeper/internal/infrastructure/memory"
	"github.com/oksasatya/notekeeper/internal/router"
	"github.com/oksasatya/notekeeper/pkg/helpers"
	"github.com/oksasatya/notekeeper/pkg/mailer/templates"
	"github.com/oksasatya/notekeeper/pkg/validation"
)

func startServer(t *testing.T) (*httptest.Server, *memory.Outbox) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()
	helpers.PasswordCost = bcrypt.MinCost
	container.Reset()
	t.Cleanup(container.Reset)

	outbox := &memory.Outbox{}
	container.SetConfig(&config.Config{
		AppName:          "notekeeper",
		StoreDriver:      "memory",
		VerifyEmailURL:   "http://localhost:3000/verify-email",
		ResetPasswordURL: "http://localhost:3000/reset-password",
	})
	container.SetLogger(helpers.NewDiscardLogger())
	container.SetJWT(helpers.NewJWTManager("cli-secret", time.Hour))
	container.SetMailSender(outbox)

	r := gin.New()
	router.Build(r, router.BuildStores())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, outbox
}

type harness struct {
	app *App
	out *bytes.Buffer
}

func newHarness(t *testing.T, serverURL string) *harness {
	out := &bytes.Buffer{}
	tokens := client.FileTokenStore{Path: filepath.Join(t.TempDir(), "token")}
	app := &App{
		Client:       client.New(serverURL, tokens),
		In:           bufio.NewReader(strings.NewReader("")),
		Out:          out,
		ReadPassword: func() (string, error) { return "pw", nil },
	}
	return &harness{app: app, out: out}
}

func (h *harness) run(args ...string) (string, error) {
	h.out.Reset()
	cmd := NewRootCmd(h.app)
	cmd.SetArgs(args)
	cmd.SetOut(h.out)
	cmd.SetErr(h.out)
	err := cmd.Execute()
	return h.out.String(), err
}

func TestCLI_NotesWithoutLogin(t *testing.T) {
	srv, _ := startServer(t)
	h := newHarness(t, srv.URL)

	_, err := h.run("notes", "list")
	require.Error(t, err)
	assert.Equal(t, "please log in", UserMessage(err))
}

func TestCLI_FullSession(t *testing.T) {
	srv, outbox := startServer(t)
	h := newHarness(t, srv.URL)

	out, err := h.run("signup", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Signup successful")

	out, err = h.run("verify", outbox.LastToken(templates.VerifyEmail))
	require.NoError(t, err)
	assert.Contains(t, out, "Email verified")

	out, err = h.run("login", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as a@x.com")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "a@x.com (verified)")

	_, err = h.run("notes", "new", "--title", "Shopping")
	require.NoError(t, err)
	_, err = h.run("notes", "new", "-t", "Work", "--color", "#2b86c5")
	require.NoError(t, err)

	notes, err := h.app.Client.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	var shopping client.Note
	for _, n := range notes {
		if n.Title == "Shopping" {
			shopping = n
		}
	}
	require.NotEmpty(t, shopping.ID)

	out, err = h.run("notes", "pin", shopping.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "* "))

	out, err = h.run("notes", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Shopping")
	assert.Contains(t, lines[1], "#2b86c5")

	out, err = h.run("notes", "list", "-s", "shop")
	require.NoError(t, err)
	assert.NotContains(t, out, "Work")

	out, err = h.run("notes", "list", "-s", "SHOP", "--remote")
	require.NoError(t, err)
	assert.Contains(t, out, shopping.ID)
	assert.NotContains(t, out, "Work")

	_, err = h.run("notes", "edit", shopping.ID, "--content", "milk")
	require.NoError(t, err)
	got, err := h.app.Client.GetNote(context.Background(), shopping.ID)
	require.NoError(t, err)
	assert.Equal(t, "milk", got.Content)
	assert.Equal(t, "Shopping", got.Title)
	assert.True(t, got.Pinned)

	_, err = h.run("notes", "export")
	require.Error(t, err)
	assert.True(t, client.IsCode(err, "ExportUnavailable"))

	_, err = h.run("notes", "rm", shopping.ID)
	require.NoError(t, err)
	_, err = h.run("notes", "rm", shopping.ID)
	require.Error(t, err)
	assert.Equal(t, client.MsgDeleteFailed, UserMessage(err))

	_, err = h.run("logout")
	require.NoError(t, err)
	_, err = h.run("notes", "list")
	assert.Equal(t, "please log in", UserMessage(err))
}

func TestCLI_ForgotAndResetPassword(t *testing.T) {
	srv, outbox := startServer(t)
	h := newHarness(t, srv.URL)
	_, err := h.run("signup", "a@x.com")
	require.NoError(t, err)

	out, err := h.run("forgot-password", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "If that email is registered")

	h.app.ReadPassword = func() (string, error) { return "new-pw", nil }
	_, err = h.run("reset-password", outbox.LastToken(templates.ForgotPassword))
	require.NoError(t, err)

	out, err = h.run("login", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in")
}
