package authz

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webappmanager/internal/models"
	"webappmanager/internal/permissions"
	"webappmanager/internal/session"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGate(opts ...Option) (*Gate, *session.Codec) {
	codec := session.NewCodec("session", "gate-secret")
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return NewGate(codec, opts...), codec
}

func sessionCookie(t *testing.T, codec *session.Codec, role models.Role, expires time.Time) *http.Cookie {
	t.Helper()
	cookie, err := codec.Cookie(session.Record{
		ID:        "u-" + string(role),
		Email:     "someone@example.com",
		Name:      "Someone",
		Role:      role,
		ExpiresAt: expires.UnixMilli(),
	}, false)
	require.NoError(t, err)
	return cookie
}

type call struct {
	count   int
	session session.Record
	ctxRec  session.Record
}

func pageRouter(gate *Gate, render Renderer, terminal gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/dashboard", gate.Page(render), terminal)
	return r
}

func TestPageRedirectsWithoutCookie(t *testing.T) {
	gate, _ := newGate()
	invoked := 0
	router := pageRouter(gate, func(c *gin.Context) (Props, error) {
		invoked++
		return nil, nil
	}, func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login?redirectTo=%2Fdashboard", rec.Header().Get("Location"))
	assert.Zero(t, invoked)
}

func TestPageDelegatesWithValidSession(t *testing.T) {
	gate, codec := newGate()
	var seen call
	router := pageRouter(gate, func(c *gin.Context) (Props, error) {
		seen.count++
		seen.session, _ = Current(c)
		seen.ctxRec, _ = session.FromContext(c.Request.Context())
		return Props{"widgets": 3}, nil
	}, func(c *gin.Context) {
		c.JSON(http.StatusOK, PropsFrom(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, codec, models.RoleManager, now.Add(time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, seen.count)
	assert.Equal(t, models.RoleManager, seen.session.Role)
	assert.Equal(t, seen.session, seen.ctxRec)
	assert.JSONEq(t, `{"widgets":3}`, rec.Body.String())
}

func TestPageRedirectsExpiredSession(t *testing.T) {
	gate, codec := newGate()
	invoked := 0
	router := pageRouter(gate, func(c *gin.Context) (Props, error) {
		invoked++
		return nil, nil
	}, func(c *gin.Context) { c.Status(http.StatusOK) })

	expired := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	expired.AddCookie(sessionCookie(t, codec, models.RoleAdmin, now.Add(-time.Millisecond)))
	expiredRec := httptest.NewRecorder()
	router.ServeHTTP(expiredRec, expired)

	missingRec := httptest.NewRecorder()
	router.ServeHTTP(missingRec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, missingRec.Code, expiredRec.Code)
	assert.Equal(t, missingRec.Header().Get("Location"), expiredRec.Header().Get("Location"))
	assert.Zero(t, invoked)
}

func TestPageRedirectsMalformedCookie(t *testing.T) {
	gate, _ := newGate()
	router := pageRouter(gate, nil, func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "eyJub3QiOiJqc29uIg.forged"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
}

func TestPageWithoutRendererYieldsEmptyProps(t *testing.T) {
	gate, codec := newGate()
	router := pageRouter(gate, nil, func(c *gin.Context) {
		c.JSON(http.StatusOK, PropsFrom(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, codec, models.RoleUser, now.Add(time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestRedirectKeepsQuery(t *testing.T) {
	gate, _ := newGate(WithLoginPath("/auth/login"))
	decision := gate.Evaluate(httptest.NewRequest(http.MethodGet, "/gallery?page=2&sort=new", nil))

	assert.False(t, decision.Allowed())
	assert.Equal(t, "/auth/login?redirectTo=%2Fgallery%3Fpage%3D2%26sort%3Dnew", decision.Redirect)
}

func TestPageRenderErrors(t *testing.T) {
	gate, codec := newGate()
	statuses := map[error]int{
		ErrForbidden:          http.StatusForbidden,
		errors.New("db down"): http.StatusInternalServerError,
	}
	for renderErr, want := range statuses {
		terminal := 0
		router := pageRouter(gate, func(c *gin.Context) (Props, error) {
			return nil, renderErr
		}, func(c *gin.Context) { terminal++ })

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(sessionCookie(t, codec, models.RoleUser, now.Add(time.Hour)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code)
		assert.Zero(t, terminal)
	}
}

func TestRequireAPI(t *testing.T) {
	tokens := session.NewTokenIssuer("jwt", time.Hour)
	gate, codec := newGate(WithTokens(tokens))

	router := gin.New()
	router.GET("/api/thing", gate.RequireAPI(), func(c *gin.Context) {
		rec, _ := Current(c)
		c.String(http.StatusOK, string(rec.Role))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/thing", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())

	withCookie := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	withCookie.AddCookie(sessionCookie(t, codec, models.RoleAdmin, now.Add(time.Hour)))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withCookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", rec.Body.String())

	token, _, err := tokens.Issue(session.Record{ID: "u9", Role: models.RoleUser, ExpiresAt: now.Add(time.Hour).UnixMilli()}, now)
	require.NoError(t, err)
	withBearer := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	withBearer.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withBearer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "USER", rec.Body.String())
}

func TestRequireCapability(t *testing.T) {
	gate, codec := newGate()
	router := gin.New()
	router.DELETE("/api/items/:id",
		gate.RequireAPI(),
		RequireCapability(func(c permissions.Capabilities) bool { return c.CanDeleteData }),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)

	cases := map[models.Role]int{
		models.RoleUser:    http.StatusForbidden,
		models.RoleManager: http.StatusForbidden,
		models.RoleAdmin:   http.StatusNoContent,
	}
	for role, want := range cases {
		req := httptest.NewRequest(http.MethodDelete, "/api/items/1", nil)
		req.AddCookie(sessionCookie(t, codec, role, now.Add(time.Hour)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestCurrentWithoutSession(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := Current(c)
	assert.False(t, ok)
	assert.Equal(t, Props{}, PropsFrom(c))
}

func TestCurrentFallsBackToRequestContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	rec := session.Record{ID: "u1", Role: models.RoleUser}
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request = c.Request.WithContext(session.WithRecord(c.Request.Context(), rec))

	got, ok := Current(c)
	assert.True(t, ok)
	assert.Equal(t, rec, got)
}
