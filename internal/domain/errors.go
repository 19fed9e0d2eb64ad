package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	// ErrInUse marks a delete refused because other rows still reference the target.
	ErrInUse     = errors.New("in use")
)

type ErrorKind int

const (
	KindBadRequest ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a failure the API reports to the caller as-is.
type Error struct {
	Kind   ErrorKind
	Code   string
	Fields []string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return e.Code + ": " + strings.Join(e.Fields, ",")
	}
	return e.Code
}

func BadRequest(code string) *Error   { return &Error{Kind: KindBadRequest, Code: code} }
func Unauthorized(code string) *Error { return &Error{Kind: KindUnauthorized, Code: code} }
func Forbidden(code string) *Error    { return &Error{Kind: KindForbidden, Code: code} }
func NotFound(code string) *Error     { return &Error{Kind: KindNotFound, Code: code} }
func Conflict(code string) *Error     { return &Error{Kind: KindConflict, Code: code} }

func MissingFields(fields []string) *Error {
	return &Error{Kind: KindBadRequest, Code: "missing_fields", Fields: fields}
}

var (
	ErrItemsRequired      = BadRequest("items_required")
	ErrInvalidProductID   = BadRequest("invalid_product_id")
	ErrInvalidQuantity    = BadRequest("invalid_quantity")
	ErrInvalidCredentials = Unauthorized("invalid_credentials")
)

func ProductNotFound(id int64) *Error {
	return NotFound(fmt.Sprintf("product_not_found:%d", id))
}

// AsError extracts a client-facing error, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
