package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webappmanager/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("jwt-secret", 15*time.Minute)
	rec := sampleRecord(models.RoleManager, testNow.Add(time.Hour))

	token, expires, err := issuer.Issue(rec, testNow)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(15*time.Minute), expires)

	got, ok := issuer.Parse(token, testNow.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, models.RoleManager, got.Role)
	assert.Equal(t, expires.UnixMilli(), got.ExpiresAt)
}

func TestTokenNeverOutlivesSession(t *testing.T) {
	issuer := NewTokenIssuer("jwt-secret", 24*time.Hour)
	rec := sampleRecord(models.RoleUser, testNow.Add(10*time.Minute))

	token, expires, err := issuer.Issue(rec, testNow)
	require.NoError(t, err)
	assert.Equal(t, rec.ExpiresTime(), expires)

	_, ok := issuer.Parse(token, testNow.Add(11*time.Minute))
	assert.False(t, ok)
}

func TestTokenRejections(t *testing.T) {
	issuer := NewTokenIssuer("jwt-secret", time.Hour)
	rec := sampleRecord(models.RoleAdmin, testNow.Add(2*time.Hour))
	token, _, err := issuer.Issue(rec, testNow)
	require.NoError(t, err)

	_, ok := NewTokenIssuer("other", time.Hour).Parse(token, testNow)
	assert.False(t, ok, "wrong secret")

	_, ok = issuer.Parse(token, testNow.Add(2*time.Hour))
	assert.False(t, ok, "expired")

	_, ok = issuer.Parse("", testNow)
	assert.False(t, ok)

	_, ok = issuer.Parse("a.b.c", testNow)
	assert.False(t, ok)

	hs256 := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Session: rec,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.ID,
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		},
	})
	signed, err := hs256.SignedString([]byte("jwt-secret"))
	require.NoError(t, err)
	_, ok = issuer.Parse(signed, testNow)
	assert.False(t, ok, "unexpected algorithm")
}
