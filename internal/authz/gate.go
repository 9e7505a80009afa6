// Package authz guards pages and API routes behind a valid session.
package authz

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"webappmanager/internal/metrics"
	"webappmanager/internal/permissions"
	"webappmanager/internal/session"
)

const (
	SessionKey = "session"
	propsKey   = "page_props"

	DefaultLoginPath = "/login"
	RedirectParam    = "redirectTo"
)

// ErrForbidden makes Page answer 403 instead of 500.
var ErrForbidden = errors.New("forbidden")

// Props is the data a page renderer hands to its template.
type Props map[string]any

type Renderer func(c *gin.Context) (Props, error)

// Decision is the outcome of evaluating a request. Exactly one of Session
// and Redirect is set.
type Decision struct {
	Session  *session.Record
	Redirect string
}

func (d Decision) Allowed() bool {
	return d.Session != nil
}

type Gate struct {
	codec     *session.Codec
	tokens    *session.TokenIssuer
	loginPath string
	now       func() time.Time
	metrics   *metrics.Registry
	log       zerolog.Logger
	onError   func(c *gin.Context, status int)
}

type Option func(*Gate)

func WithLoginPath(path string) Option {
	return func(g *Gate) { g.loginPath = path }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithTokens lets RequireAPI accept bearer tokens as well as cookies.
func WithTokens(tokens *session.TokenIssuer) Option {
	return func(g *Gate) { g.tokens = tokens }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(g *Gate) { g.metrics = m }
}

func WithLogger(log zerolog.Logger) Option {
	return func(g *Gate) { g.log = log }
}

// WithErrorHandler sets how Page reports renderer failures.
func WithErrorHandler(fn func(c *gin.Context, status int)) Option {
	return func(g *Gate) { g.onError = fn }
}

func NewGate(codec *session.Codec, opts ...Option) *Gate {
	g := &Gate{
		codec:     codec,
		loginPath: DefaultLoginPath,
		now:       time.Now,
		log:       zerolog.Nop(),
		onError: func(c *gin.Context, status int) {
			c.AbortWithStatus(status)
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LoginURL returns the login location that brings the user back to target.
func (g *Gate) LoginURL(target string) string {
	return g.loginPath + "?" + RedirectParam + "=" + url.QueryEscape(target)
}

func (g *Gate) Evaluate(r *http.Request) Decision {
	if rec, ok := g.codec.FromRequest(r, g.now()); ok {
		return Decision{Session: &rec}
	}
	return Decision{Redirect: g.LoginURL(r.URL.RequestURI())}
}

// Page wraps a server-rendered page. Without a valid session the request is
// redirected to the login page and render never runs. Otherwise the session
// is attached to the context, render runs once, and its props are stored for
// the next handler in the chain (see PropsFrom).
func (g *Gate) Page(render Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := g.Evaluate(c.Request)
		if !decision.Allowed() {
			g.metrics.GateDecision("redirect")
			c.Redirect(http.StatusTemporaryRedirect, decision.Redirect)
			c.Abort()
			return
		}

		g.metrics.GateDecision("allow")
		attach(c, *decision.Session)

		props := Props{}
		if render != nil {
			result, err := render(c)
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, ErrForbidden) {
					status = http.StatusForbidden
				} else {
					g.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("page render failed")
				}
				g.onError(c, status)
				c.Abort()
				return
			}
			if result != nil {
				props = result
			}
		}
		c.Set(propsKey, props)
		c.Next()
	}
}

// Require is Page without a renderer, for guarding whole route groups.
func (g *Gate) Require() gin.HandlerFunc {
	return g.Page(nil)
}

// RequireAPI answers 401 instead of redirecting.
func (g *Gate) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := g.now()
		rec, ok := g.codec.FromRequest(c.Request, now)
		if !ok && g.tokens != nil {
			rec, ok = g.tokens.Parse(bearerToken(c.Request), now)
		}
		if !ok {
			g.metrics.GateDecision("unauthorized")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		g.metrics.GateDecision("allow")
		attach(c, rec)
		c.Next()
	}
}

// RequireCapability rejects sessions whose role lacks the capability.
func RequireCapability(allowed func(permissions.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := Current(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !allowed(permissions.ForSession(&rec)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// Current returns the session attached by the gate, looking at the request
// context when the gin key is absent.
func Current(c *gin.Context) (session.Record, bool) {
	if val, exists := c.Get(SessionKey); exists {
		if rec, ok := val.(session.Record); ok {
			return rec, true
		}
	}
	if c.Request == nil {
		return session.Record{}, false
	}
	return session.FromContext(c.Request.Context())
}

func PropsFrom(c *gin.Context) Props {
	if val, ok := c.Get(propsKey); ok {
		if props, ok := val.(Props); ok {
			return props
		}
	}
	return Props{}
}

func attach(c *gin.Context, rec session.Record) {
	c.Set(SessionKey, rec)
	c.Request = c.Request.WithContext(session.WithRecord(c.Request.Context(), rec))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
