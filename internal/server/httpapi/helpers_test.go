package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/licitacrm/licitacrm/internal/common"
	"github.com/licitacrm/licitacrm/internal/dbx"
	"github.com/licitacrm/licitacrm/internal/logging"
	"github.com/licitacrm/licitacrm/internal/server/auth"
	"github.com/licitacrm/licitacrm/internal/server/models"
	refreshtokensrepo "github.com/licitacrm/licitacrm/internal/server/repositories/refreshtokens"
	usersrepo "github.com/licitacrm/licitacrm/internal/server/repositories/users"
	"github.com/licitacrm/licitacrm/internal/server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- clock ---

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// --- in-memory store ---

type fakePool struct{}

func (fakePool) WithConn(ctx context.Context, fn func(ctx context.Context, conn dbx.DBTX) error) error {
	return fn(ctx, nil)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type memTokens struct {
	mu        sync.Mutex
	rows      map[string]models.RefreshToken
	createErr error
	findErr   error
	delErr    error
}

func (m *memTokens) Create(ctx context.Context, t *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.rows[t.Token] = *t
	return nil
}

func (m *memTokens) FindActive(ctx context.Context, token, userID string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	row, ok := m.rows[token]
	if !ok || row.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (m *memTokens) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.rows, token)
	return nil
}

func (m *memTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (m *memTokens) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memManager struct {
	users  *memUsers
	tokens *memTokens
}

func (m *memManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *memManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.users }
func (m *memManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.tokens }

// --- environment ---

var hashOnce = sync.OnceValue(func() string {
	h, err := auth.HashPassword([]byte("secret"))
	if err != nil {
		panic(err)
	}
	return h
})

type testEnv struct {
	clock  *testClock
	codec  *auth.Codec
	users  *memUsers
	tokens *memTokens
	pinger *fakePinger
	server *Server
}

func newTestEnv(t *testing.T, mutate ...func(*Options)) *testEnv {
	t.Helper()

	e := &testEnv{
		clock: &testClock{t: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)},
		users: &memUsers{users: map[string]*models.User{
			"u-1": {ID: "u-1", Email: "a@b.com", PasswordHash: hashOnce(), Role: models.RoleUser},
		}},
		tokens: &memTokens{rows: map[string]models.RefreshToken{}},
		pinger: &fakePinger{},
	}
	e.codec = auth.NewCodec([]byte("access-secret"), []byte("refresh-secret"), 15*time.Minute, 7*24*time.Hour).
		WithClock(e.clock.Now)

	svc := services.NewAuthService(fakePool{}, &memManager{users: e.users, tokens: e.tokens}, e.codec, logging.Nop{}).
		WithClock(e.clock.Now)

	opts := Options{
		LoginPath:   "/login",
		PublicPaths: []string{"/login", "/auth/", "/healthz", "/assets/"},
		Now:         e.clock.Now,
	}
	for _, m := range mutate {
		m(&opts)
	}

	e.server = NewServer(opts, svc, e.codec, e.pinger, logging.Nop{})
	return e
}

func (e *testEnv) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) (access, refresh *http.Cookie) {
	t.Helper()
	rec := e.do(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	return cookieByName(rec, common.AccessTokenCookieName), cookieByName(rec, common.RefreshTokenCookieName)
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}
