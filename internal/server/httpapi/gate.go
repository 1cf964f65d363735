package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/licitacrm/licitacrm/internal/common"
	"github.com/licitacrm/licitacrm/internal/logging"
)

// Decision is the outcome of the edge gate for one request.
type Decision int

const (
	// Pass lets the request through to routing.
	Pass Decision = iota
	// PassDeferred lets the request through although the access token is
	// missing or invalid, because a refresh cookie is present and the client
	// is expected to renew. Handlers still check the access token.
	PassDeferred
	// Redirect sends the browser to the login page.
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Pass:
		return "pass"
	case PassDeferred:
		return "pass_deferred"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Gate is the edge authorization check run before any route. It only
// inspects the session cookies (or a bearer header in place of the access
// cookie) and verifies the access token signature; it never reads the
// session store and never renews tokens.
type Gate struct {
	loginPath string
	public    []string
	tokens    AccessVerifier
	logger    logging.Logger
}

// NewGate builds a Gate. Public entries ending in "/" match by prefix,
// others exactly. The login path is always public.
func NewGate(loginPath string, public []string, tokens AccessVerifier, l logging.Logger) *Gate {
	if loginPath == "" {
		loginPath = "/login"
	}
	paths := append([]string{loginPath}, public...)
	return &Gate{loginPath: loginPath, public: paths, tokens: tokens, logger: l}
}

// IsPublic reports whether path bypasses the gate.
func (g *Gate) IsPublic(path string) bool {
	for _, p := range g.public {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) || path == strings.TrimSuffix(p, "/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

// Decide evaluates the gate for a path and the raw cookie values.
func (g *Gate) Decide(path, accessToken, refreshToken string) Decision {
	if g.IsPublic(path) {
		return Pass
	}
	if accessToken != "" {
		if _, err := g.tokens.VerifyAccess(accessToken); err == nil {
			return Pass
		}
	}
	if refreshToken != "" {
		return PassDeferred
	}
	return Redirect
}

// LoginURL is where a redirected request is sent.
func (g *Gate) LoginURL(from string) string {
	return g.loginPath + "?" + url.Values{"from": {from}}.Encode()
}

// Handler returns the gate as gin middleware.
func (g *Gate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		access := cookieValue(c, common.AccessTokenCookieName)
		if access == "" {
			access = bearerToken(c.GetHeader("Authorization"))
		}
		d := g.Decide(path, access, cookieValue(c, common.RefreshTokenCookieName))

		if d == Redirect {
			g.logger.Debug(c.Request.Context(), "gate redirect", "path", path)
			c.Redirect(http.StatusFound, g.LoginURL(path))
			c.Abort()
			return
		}
		c.Next()
	}
}
