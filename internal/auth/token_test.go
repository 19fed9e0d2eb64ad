package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestIssueVerifyCustomer(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	iss := NewIssuer(testSecret, WithClock(func() time.Time { return now }))

	tok, exp, err := iss.Issue(CustomerSubject(42, "ana@example.com"))
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour), exp)

	sub, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Subject{Role: RoleCustomer, ID: 42, Email: "ana@example.com"}, sub)
}

func TestIssueVerifyAdmin(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	iss := NewIssuer(testSecret, WithClock(func() time.Time { return now }))

	tok, exp, err := iss.Issue(AdminSubject(1, "root"))
	require.NoError(t, err)
	assert.Equal(t, now.Add(12*time.Hour), exp)

	sub, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, sub.Role)
	assert.Equal(t, "root", sub.Username)
}

func TestVerifyExpired(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	iss := NewIssuer(testSecret, WithClock(func() time.Time { return clock }))

	tok, _, err := iss.Issue(AdminSubject(1, "root"))
	require.NoError(t, err)

	clock = clock.Add(11 * time.Hour)
	_, err = iss.Verify(tok)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	iss := NewIssuer(testSecret)
	tok, _, err := iss.Issue(CustomerSubject(7, "a@b.c"))
	require.NoError(t, err)

	_, err = NewIssuer([]byte("other")).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Verify(tok + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		Role:  RoleAdmin,
		Email: "",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "root",
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	c := claims{
		Role:  "superuser",
		Email: "x@y.z",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(testSecret)
	require.NoError(t, err)

	_, err = NewIssuer(testSecret).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRejectsIncompleteSubject(t *testing.T) {
	iss := NewIssuer(testSecret)
	_, _, err := iss.Issue(Subject{Role: RoleCustomer, ID: 1})
	assert.Error(t, err)
	_, _, err = iss.Issue(Subject{Role: "guest", ID: 1, Email: "a@b.c"})
	assert.Error(t, err)
}
