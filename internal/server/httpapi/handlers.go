package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/licitacrm/licitacrm/internal/common"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidRefresh     = "Invalid or expired refresh token"
	msgInvalidAccess      = "Invalid or expired access token"
	msgInternal           = "Internal server error"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

func (s *Server) login(c *gin.Context) {
	ctx := c.Request.Context()

	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := s.validator.Validate(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.flows.Login(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
			return
		}
		s.logger.Error(ctx, "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	s.setSessionCookie(c, common.AccessTokenCookieName, res.AccessToken, res.AccessExpiresAt)
	if res.RefreshToken != "" {
		s.setSessionCookie(c, common.RefreshTokenCookieName, res.RefreshToken, res.RefreshExpiresAt)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": res.User.Profile()})
}

func (s *Server) logout(c *gin.Context) {
	ctx := c.Request.Context()
	token := cookieValue(c, common.RefreshTokenCookieName)

	s.clearSessionCookies(c)

	if err := s.flows.Logout(ctx, token); err != nil {
		s.logger.Warn(ctx, "refresh token not deleted on logout", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (s *Server) refresh(c *gin.Context) {
	ctx := c.Request.Context()

	token := cookieValue(c, common.RefreshTokenCookieName)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidRefresh})
		return
	}

	res, err := s.flows.Refresh(ctx, token)
	if err != nil {
		if common.IsAuthError(err) {
			s.logger.Debug(ctx, "refresh rejected", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidRefresh})
			return
		}
		s.logger.Error(ctx, "refresh failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	s.setSessionCookie(c, common.AccessTokenCookieName, res.AccessToken, res.AccessExpiresAt)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Token refreshed",
		"user":        res.User.Profile(),
		"accessToken": res.AccessToken,
	})
}

func (s *Server) verify(c *gin.Context) {
	ctx := c.Request.Context()

	token := cookieValue(c, common.AccessTokenCookieName)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false, "error": msgInvalidAccess})
		return
	}

	user, err := s.flows.Verify(ctx, token)
	if err != nil {
		if common.IsAuthError(err) {
			s.logger.Debug(ctx, "verify rejected", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false, "error": msgInvalidAccess})
			return
		}
		s.logger.Error(ctx, "verify failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"authenticated": false, "error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user.Profile()})
}

// session is the protected probe standing in for business handlers.
func (s *Server) session(c *gin.Context) {
	id, ok := IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidAccess})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": id.UserID, "email": id.Email, "role": id.Role}})
}

func (s *Server) health(c *gin.Context) {
	if s.pinger != nil {
		if err := s.pinger.Ping(c.Request.Context()); err != nil {
			s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
