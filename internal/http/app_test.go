package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"antiquites/internal/config"
	"antiquites/internal/domain"
	"antiquites/internal/events"
	"antiquites/internal/http/handlers"
	"antiquites/internal/metrics"
	"antiquites/internal/repos"
	"antiquites/internal/storage"
)

const (
	adminEmail = "admin@antiquites.test"
	adminPass  = "Adm1nPass!"
	alicePass  = "Passw0rd!"
)

type testEnv struct {
	app       *fiber.App
	db        *sqlx.DB
	users     *repos.UserRepo
	ann       *repos.AnnouncementRepo
	uploadDir string
	adminID   int64
	aliceID   int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.SeedAdmin(ctx, db, adminEmail, adminPass, zap.NewNop()))

	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir)
	require.NoError(t, err)

	cfg := config.Config{
		TemplatesDir: "../../web/templates",
		StaticDir:    "../../web/static",
		UploadDir:    dir,
	}
	deps := handlers.NewDeps(db, cfg, store, events.Nop{}, metrics.New("test"), zap.NewNop())

	env := &testEnv{
		app:       handlers.NewApp(cfg, deps),
		db:        db,
		users:     repos.NewUserRepo(db),
		ann:       repos.NewAnnouncementRepo(db),
		uploadDir: dir,
	}
	admin, err := env.users.ByEmail(ctx, adminEmail)
	require.NoError(t, err)
	require.NotNil(t, admin)
	env.adminID = admin.ID

	hash, err := bcrypt.GenerateFromPassword([]byte(alicePass), bcrypt.MinCost)
	require.NoError(t, err)
	env.aliceID, err = env.users.Create(ctx, "alice@antiquites.test", string(hash), "Alice")
	require.NoError(t, err)
	return env
}

// session binds a fresh sid to the user and returns it.
func (e *testEnv) session(t *testing.T, userID int64) string {
	t.Helper()
	sid := uuid.NewString()
	require.NoError(t, e.users.BindSession(context.Background(), sid, userID))
	return sid
}

func (e *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	resp, err := e.app.Test(httptest.NewRequest("GET", "/login", nil), -1)
	require.NoError(t, err)
	if tok := cookie(resp, "csrf_"); tok != "" {
		return tok
	}
	t.Fatal("csrf token missing")
	return ""
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (e *testEnv) get(t *testing.T, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// postForm sends a urlencoded form carrying a valid csrf token.
func (e *testEnv) postForm(t *testing.T, path, sid string, form url.Values, header ...string) *http.Response {
	t.Helper()
	tok := e.csrfToken(t)
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", tok)
	req := newFormRequest(path, form)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return e.send(t, req, tok, sid)
}

func newFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return req
}

type upload struct {
	filename    string
	contentType string
	data        []byte
}

func (e *testEnv) postMultipart(t *testing.T, path, sid string, fields map[string]string, files []upload) *http.Response {
	t.Helper()
	tok := e.csrfToken(t)
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("csrf", tok))
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, f.filename))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.send(t, req, tok, sid)
}

func (e *testEnv) send(t *testing.T, req *http.Request, tok, sid string) *http.Response {
	t.Helper()
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// seed inserts a pending announcement owned by Alice.
func (e *testEnv) seed(t *testing.T, title string, images *string) int64 {
	t.Helper()
	id, err := e.ann.Create(context.Background(), e.aliceID, title, "Belle pièce en très bon état", "", images, time.Now())
	require.NoError(t, err)
	return id
}

func (e *testEnv) seedPublished(t *testing.T, title string, price float64) int64 {
	t.Helper()
	id := e.seed(t, title, nil)
	require.NoError(t, e.ann.SetStatus(context.Background(), id, domain.StatusValidated, &price, time.Now()))
	return id
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
