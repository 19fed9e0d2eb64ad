package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Werkzeug defaults used when the method string omits parameters.
const (
	werkzeugPBKDF2Iterations = 600000
	werkzeugScryptN          = 1 << 15
	werkzeugScryptR          = 8
	werkzeugScryptP          = 1
	werkzeugScryptKeyLen     = 64
)

// werkzeugHash is "method$salt$hexdigest" as written by
// werkzeug.security.generate_password_hash.
type werkzeugHash struct {
	method string
	params []string
	salt   string
	digest string
}

func parseWerkzeug(s string) (werkzeugHash, bool) {
	parts := strings.Split(s, "$")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return werkzeugHash{}, false
	}
	if _, err := hex.DecodeString(parts[2]); err != nil {
		return werkzeugHash{}, false
	}
	fields := strings.Split(parts[0], ":")
	switch fields[0] {
	case "pbkdf2", "scrypt":
	default:
		return werkzeugHash{}, false
	}
	return werkzeugHash{method: fields[0], params: fields[1:], salt: parts[1], digest: strings.ToLower(parts[2])}, true
}

func (w werkzeugHash) verify(password string) bool {
	var (
		sum []byte
		err error
	)
	switch w.method {
	case "pbkdf2":
		sum, err = w.pbkdf2(password)
	case "scrypt":
		sum, err = w.scrypt(password)
	default:
		return false
	}
	if err != nil {
		return false
	}
	got := hex.EncodeToString(sum)
	return subtle.ConstantTimeCompare([]byte(got), []byte(w.digest)) == 1
}

func (w werkzeugHash) pbkdf2(password string) ([]byte, error) {
	name := "sha256"
	iterations := werkzeugPBKDF2Iterations
	if len(w.params) > 0 {
		name = w.params[0]
	}
	if len(w.params) > 1 {
		n, err := strconv.Atoi(w.params[1])
		if err != nil || n < 1 {
			return nil, strconv.ErrSyntax
		}
		iterations = n
	}
	var h func() hash.Hash
	switch name {
	case "sha1":
		h = sha1.New
	case "sha256":
		h = sha256.New
	case "sha512":
		h = sha512.New
	default:
		return nil, strconv.ErrSyntax
	}
	return pbkdf2.Key([]byte(password), []byte(w.salt), iterations, h().Size(), h), nil
}

func (w werkzeugHash) scrypt(password string) ([]byte, error) {
	n, r, p := werkzeugScryptN, werkzeugScryptR, werkzeugScryptP
	vals := []*int{&n, &r, &p}
	for i, raw := range w.params {
		if i >= len(vals) {
			break
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, strconv.ErrSyntax
		}
		*vals[i] = v
	}
	return scrypt.Key([]byte(password), []byte(w.salt), n, r, p, werkzeugScryptKeyLen)
}
