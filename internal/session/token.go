package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"webappmanager/internal/ids"
)

type tokenClaims struct {
	Session Record `json:"session"`
	jwt.RegisteredClaims
}

// TokenIssuer mints bearer tokens that carry a session record.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for rec. The token never outlives the session.
func (t *TokenIssuer) Issue(rec Record, now time.Time) (string, time.Time, error) {
	expires := now.Add(t.ttl)
	if sessionExpiry := rec.ExpiresTime(); sessionExpiry.Before(expires) {
		expires = sessionExpiry
	}
	rec.ExpiresAt = expires.UnixMilli()

	claims := tokenClaims{
		Session: rec,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			Subject:   rec.ID,
			ID:        ids.New(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign jwt: %w", err)
	}
	return signed, expires, nil
}

func (t *TokenIssuer) Parse(tokenStr string, now time.Time) (Record, bool) {
	if tokenStr == "" {
		return Record{}, false
	}
	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return Record{}, false
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || claims.Subject != claims.Session.ID {
		return Record{}, false
	}
	return normalize(claims.Session, now)
}
