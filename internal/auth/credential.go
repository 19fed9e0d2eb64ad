package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credential is a stored password in one of the representations found in
// the accounts tables.
type Credential interface {
	Verify(password string) bool
	// NeedsRehash reports whether the stored form should be replaced by a
	// fresh Hash of the password after a successful login.
	NeedsRehash() bool
}

// Hashed is a one-way password hash: bcrypt for records written by this
// service, Werkzeug pbkdf2/scrypt for records imported from the old shop.
type Hashed struct {
	Encoded string
}

func (h Hashed) Verify(password string) bool {
	if isBcrypt(h.Encoded) {
		return bcrypt.CompareHashAndPassword([]byte(h.Encoded), []byte(password)) == nil
	}
	if wz, ok := parseWerkzeug(h.Encoded); ok {
		return wz.verify(password)
	}
	return false
}

func (h Hashed) NeedsRehash() bool {
	if !isBcrypt(h.Encoded) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(h.Encoded))
	return err != nil || cost < bcrypt.DefaultCost
}

// LegacyPlaintext is a password stored verbatim by early versions of the shop.
//
// Deprecated: accepted only so those accounts can log in once and be
// rewritten as Hashed. Nothing creates new LegacyPlaintext records.
type LegacyPlaintext struct {
	Value string
}

func (l LegacyPlaintext) Verify(password string) bool {
	if l.Value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(l.Value), []byte(password)) == 1
}

func (l LegacyPlaintext) NeedsRehash() bool { return true }

// ParseCredential picks the representation of a stored credential.
func ParseCredential(stored string) Credential {
	if isBcrypt(stored) {
		return Hashed{Encoded: stored}
	}
	if _, ok := parseWerkzeug(stored); ok {
		return Hashed{Encoded: stored}
	}
	return LegacyPlaintext{Value: stored}
}

// Verify checks a submitted password against a stored credential.
func Verify(stored, password string) bool {
	return ParseCredential(stored).Verify(password)
}

// Hash produces the stored form for a new password.
func Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isBcrypt(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
