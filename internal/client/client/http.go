package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// HTTPClient implements Client against the server's HTTP endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for baseURL with its own cookie jar.
// Redirects are not followed, so a gate redirect surfaces as ErrUnauthorized.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

type apiError struct {
	Error string `json:"error"`
}

type userEnvelope struct {
	User *Profile `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*Profile, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": string(password)})
	if err != nil {
		return nil, err
	}

	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *HTTPClient) Refresh(ctx context.Context) (*Profile, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Verify(ctx context.Context) (*Profile, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Session(ctx context.Context) (*Profile, error) {
	var out userEnvelope
	err := c.do(ctx, http.MethodGet, "/api/session", nil, &out)
	if errors.Is(err, ErrUnauthorized) {
		if _, rerr := c.Refresh(ctx); rerr != nil {
			return nil, rerr
		}
		err = c.do(ctx, http.MethodGet, "/api/session", nil, &out)
	}
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return err
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func statusError(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	var e apiError
	_ = json.Unmarshal(body, &e)
	msg := e.Error
	if msg == "" {
		msg = http.StatusText(code)
	}

	switch {
	case code == http.StatusUnauthorized, code >= 300 && code < 400:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	case code == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	}
	return fmt.Errorf("%w: %s", ErrServer, msg)
}
