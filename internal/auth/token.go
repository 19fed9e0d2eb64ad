package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Admin sessions are shorter lived than customer sessions.
const (
	CustomerTokenTTL = 7 * 24 * time.Hour
	AdminTokenTTL    = 12 * time.Hour
)

const tokenIssuer = "storefront"

var ErrInvalidToken = errors.New("invalid token")

// Subject is the identity carried by a token. Customers are identified by
// email, admins by username; the other field stays empty.
type Subject struct {
	Role     Role
	ID       uint
	Email    string
	Username string
}

func CustomerSubject(id uint, email string) Subject {
	return Subject{Role: RoleCustomer, ID: id, Email: email}
}

func AdminSubject(id uint, username string) Subject {
	return Subject{Role: RoleAdmin, ID: id, Username: username}
}

func (s Subject) valid() bool {
	if s.ID == 0 {
		return false
	}
	switch s.Role {
	case RoleCustomer:
		return s.Email != "" && s.Username == ""
	case RoleAdmin:
		return s.Username != "" && s.Email == ""
	}
	return false
}

func (r Role) ttl() time.Duration {
	switch r {
	case RoleCustomer:
		return CustomerTokenTTL
	case RoleAdmin:
		return AdminTokenTTL
	}
	return 0
}

type claims struct {
	Role     Role   `json:"role"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 identity tokens. It holds no session state.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

type IssuerOption func(*Issuer)

func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(secret []byte, opts ...IssuerOption) *Issuer {
	i := &Issuer{secret: secret, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i
}

func (i *Issuer) Issue(s Subject) (string, time.Time, error) {
	if !s.valid() {
		return "", time.Time{}, errors.New("auth: incomplete subject")
	}
	now := i.now()
	exp := now.Add(s.Role.ttl())
	c := claims{
		Role:     s.Role,
		Email:    s.Email,
		Username: s.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(s.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify returns the token's subject. Every failure, expiry included,
// is reported as ErrInvalidToken.
func (i *Issuer) Verify(token string) (Subject, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Subject{}, ErrInvalidToken
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return Subject{}, ErrInvalidToken
	}
	s := Subject{Role: c.Role, ID: uint(id), Email: c.Email, Username: c.Username}
	if !s.valid() {
		return Subject{}, ErrInvalidToken
	}
	return s, nil
}
