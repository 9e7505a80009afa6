// Package session turns session cookies into validated records.
//
// Every failure mode (missing cookie, malformed payload, bad signature,
// expiry) collapses into the same "no session" result.
package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"webappmanager/internal/models"
	"webappmanager/internal/security"
)

const DefaultCookieName = "session"

type Codec struct {
	cookieName string
	secret     string
}

// NewCodec returns a codec for cookieName. An empty secret disables signing.
func NewCodec(cookieName, secret string) *Codec {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Codec{cookieName: cookieName, secret: secret}
}

func (c *Codec) CookieName() string {
	return c.cookieName
}

func (c *Codec) Encode(rec Record) (string, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	if c.secret == "" {
		return payload, nil
	}
	return payload + "." + security.Sign(c.secret, payload), nil
}

func (c *Codec) Decode(value string, now time.Time) (Record, bool) {
	if value == "" {
		return Record{}, false
	}

	payload := value
	if c.secret != "" {
		idx := strings.LastIndexByte(value, '.')
		if idx <= 0 {
			return Record{}, false
		}
		payload = value[:idx]
		if !security.Verify(c.secret, value[idx+1:], payload) {
			return Record{}, false
		}
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false
	}
	return normalize(rec, now)
}

// FromCookieHeader extracts the session from a raw Cookie header value.
func (c *Codec) FromCookieHeader(header string, now time.Time) (Record, bool) {
	if header == "" {
		return Record{}, false
	}
	req := http.Request{Header: http.Header{"Cookie": []string{header}}}
	cookie, err := req.Cookie(c.cookieName)
	if err != nil {
		return Record{}, false
	}
	return c.Decode(cookie.Value, now)
}

func (c *Codec) FromRequest(r *http.Request, now time.Time) (Record, bool) {
	return c.FromCookieHeader(strings.Join(r.Header.Values("Cookie"), "; "), now)
}

// Cookie builds the Set-Cookie value for a freshly authenticated record.
func (c *Codec) Cookie(rec Record, secure bool) (*http.Cookie, error) {
	value, err := c.Encode(rec)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     c.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  rec.ExpiresTime(),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func (c *Codec) ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func normalize(rec Record, now time.Time) (Record, bool) {
	role, err := models.ParseRole(string(rec.Role))
	if err != nil || rec.ID == "" {
		return Record{}, false
	}
	rec.Role = role
	if !rec.Valid(now) {
		return Record{}, false
	}
	return rec, true
}
