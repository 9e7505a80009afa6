// Package i18n resolves the request language and formats dates for it.
package i18n

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	CookieName = "lang"
	QueryParam = "lang"

	contextKey = "lang"
)

// Supported lists the available languages; the first is the fallback.
var Supported = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
}

var matcher = language.NewMatcher(Supported)

type langKey struct{}

// Match picks a supported language for the given preferences, most
// preferred first. Values may be tags or Accept-Language headers.
func Match(preferences ...string) language.Tag {
	for _, pref := range preferences {
		if pref == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, confidence := matcher.Match(tags...)
		if confidence != language.No {
			return Supported[idx]
		}
	}
	return Supported[0]
}

// Resolve looks at ?lang=, then the lang cookie, then Accept-Language.
func Resolve(r *http.Request) language.Tag {
	var cookieValue string
	if cookie, err := r.Cookie(CookieName); err == nil {
		cookieValue = cookie.Value
	}
	return Match(r.URL.Query().Get(QueryParam), cookieValue, r.Header.Get("Accept-Language"))
}

// Middleware stores the resolved language on the gin and request contexts.
// An explicit ?lang= is remembered in a cookie.
func Middleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := Resolve(c.Request)
		if c.Query(QueryParam) != "" {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     CookieName,
				Value:    tag.String(),
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(contextKey, tag)
		c.Request = c.Request.WithContext(WithLanguage(c.Request.Context(), tag))
		c.Next()
	}
}

func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, langKey{}, tag)
}

func FromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(langKey{}).(language.Tag); ok {
		return tag
	}
	return Supported[0]
}

func Current(c *gin.Context) language.Tag {
	if val, ok := c.Get(contextKey); ok {
		if tag, ok := val.(language.Tag); ok {
			return tag
		}
	}
	return FromContext(c.Request.Context())
}
