package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"webappmanager/internal/authz"
	"webappmanager/internal/permissions"
	"webappmanager/internal/service"
	"webappmanager/internal/session"
)

const defaultLanding = "/dashboard"

type loginRequest struct {
	Email      string `json:"email" form:"email" binding:"required,email"`
	Password   string `json:"password" form:"password" binding:"required"`
	RedirectTo string `json:"redirectTo" form:"redirectTo"`
}

type sessionResponse struct {
	User         session.Record           `json:"user"`
	Capabilities permissions.Capabilities `json:"capabilities"`
}

type meResponse struct {
	Authenticated bool                     `json:"authenticated"`
	User          *session.Record          `json:"user"`
	Capabilities  permissions.Capabilities `json:"capabilities"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login accepts JSON or a browser form. Form posts are answered with
// redirects, JSON callers get the session body.
func (h HandlerSet) Login(c *gin.Context) {
	form := isFormPost(c)

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.metrics.Login("invalid")
		if form {
			h.loginFailed(c, "invalid", req.RedirectTo)
			return
		}
		badRequest(c)
		return
	}

	rec, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.metrics.Login("invalid")
		case errors.Is(err, service.ErrUserInactive):
			h.metrics.Login("inactive")
		default:
			h.metrics.Login("error")
		}
		if form && (errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive)) {
			reason := "invalid"
			if errors.Is(err, service.ErrUserInactive) {
				reason = "inactive"
			}
			h.loginFailed(c, reason, req.RedirectTo)
			return
		}
		h.respondError(c, err)
		return
	}

	cookie, err := h.codec.Cookie(rec, h.cfg.Session.Secure)
	if err != nil {
		h.respondError(c, err)
		return
	}
	http.SetCookie(c.Writer, cookie)
	h.metrics.Login("success")
	h.log.Info().Str("user_id", rec.ID).Str("role", rec.Role.String()).Msg("user signed in")

	if form {
		c.Redirect(http.StatusSeeOther, safeRedirect(req.RedirectTo, defaultLanding))
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		User:         rec,
		Capabilities: permissions.For(rec.Role),
	})
}

func (h HandlerSet) loginFailed(c *gin.Context, reason, redirectTo string) {
	q := url.Values{}
	q.Set("error", reason)
	if isLocalPath(redirectTo) {
		q.Set(authz.RedirectParam, redirectTo)
	}
	c.Redirect(http.StatusSeeOther, h.loginPath()+"?"+q.Encode())
}

func (h HandlerSet) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, h.codec.ClearCookie(h.cfg.Session.Secure))
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, h.loginPath())
		return
	}
	c.Status(http.StatusNoContent)
}

// Me reports the current session using the same validity rule as the gate.
func (h HandlerSet) Me(c *gin.Context) {
	rec, ok := h.codec.FromRequest(c.Request, h.now())
	if !ok {
		c.JSON(http.StatusOK, meResponse{Capabilities: permissions.ForSession(nil)})
		return
	}
	c.JSON(http.StatusOK, meResponse{
		Authenticated: true,
		User:          &rec,
		Capabilities:  permissions.ForSession(&rec),
	})
}

func (h HandlerSet) IssueToken(c *gin.Context) {
	if h.tokens == nil {
		c.AbortWithStatusJSON(http.StatusNotImplemented, gin.H{"error": "tokens_disabled"})
		return
	}
	rec, ok := authz.Current(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	token, expires, err := h.tokens.Issue(rec, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token, TokenType: "Bearer", ExpiresAt: expires})
}

func (h HandlerSet) loginPath() string {
	if h.cfg.Session.LoginPath != "" {
		return h.cfg.Session.LoginPath
	}
	return authz.DefaultLoginPath
}

func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return true
	}
	return false
}
