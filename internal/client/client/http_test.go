package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthServer mimics the cookie behaviour of the real server.
type fakeAuthServer struct {
	refreshCalls atomic.Int32
	sessionCalls atomic.Int32
	refreshOK    bool
}

func (f *fakeAuthServer) handler() http.Handler {
	mux := http.NewServeMux()
	user := map[string]any{"id": "u-1", "email": "a@b.com", "role": "user"}

	writeJSON := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] != "a@b.com" || in["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "stale", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "r1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "user": user})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		if c, err := r.Cookie("refresh_token"); err != nil || c.Value != "r1" || !f.refreshOK {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Refresh token revoked or unknown"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "fresh", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"message": "Token refreshed", "user": user, "accessToken": "fresh"})
	})
	mux.HandleFunc("GET /api/session", func(w http.ResponseWriter, r *http.Request) {
		f.sessionCalls.Add(1)
		if c, err := r.Cookie("access_token"); err != nil || c.Value != "fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired access token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	})
	mux.HandleFunc("GET /auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("access_token"); err != nil {
			http.Redirect(w, r, "/login?from=%2Fauth%2Fverify", http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": user})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "access_token", Path: "/", MaxAge: -1})
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	})
	mux.HandleFunc("POST /boom", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	})
	return mux
}

func newTestClient(t *testing.T, refreshOK bool) (*HTTPClient, *fakeAuthServer) {
	t.Helper()
	f := &fakeAuthServer{refreshOK: refreshOK}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)
	return c, f
}

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t, true)

	p, err := c.Login(context.Background(), "a@b.com", []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.ID)

	_, err = c.Login(context.Background(), "a@b.com", []byte("wrong"))
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestSession_RefreshesOnceAndRetries(t *testing.T) {
	c, f := newTestClient(t, true)
	_, err := c.Login(context.Background(), "a@b.com", []byte("secret"))
	require.NoError(t, err)

	p, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", p.Email)
	assert.EqualValues(t, 1, f.refreshCalls.Load())
	assert.EqualValues(t, 2, f.sessionCalls.Load())

	_, err = c.Session(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.refreshCalls.Load(), "fresh access cookie needs no refresh")
}

func TestSession_RefreshFailureIsReturned(t *testing.T) {
	c, f := newTestClient(t, false)
	_, err := c.Login(context.Background(), "a@b.com", []byte("secret"))
	require.NoError(t, err)

	_, err = c.Session(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualValues(t, 1, f.refreshCalls.Load())
	assert.EqualValues(t, 1, f.sessionCalls.Load())
}

func TestLogout_DropsCookies(t *testing.T) {
	c, f := newTestClient(t, true)
	_, err := c.Login(context.Background(), "a@b.com", []byte("secret"))
	require.NoError(t, err)

	require.NoError(t, c.Logout(context.Background()))

	_, err = c.Refresh(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualValues(t, 1, f.refreshCalls.Load())
}

func TestVerify_RedirectIsUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, true)

	_, err := c.Verify(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestStatusMapping(t *testing.T) {
	c, _ := newTestClient(t, true)

	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
	require.ErrorIs(t, c.do(context.Background(), http.MethodPost, "/boom", nil, nil), ErrServer)
	assert.ErrorIs(t, statusError(http.StatusBadRequest, []byte(`{"error":"email is required"}`)), ErrBadRequest)
	assert.NoError(t, statusError(http.StatusNoContent, nil))
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, time.Second)
	require.NoError(t, err)

	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}
