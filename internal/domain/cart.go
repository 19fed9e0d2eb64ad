package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// CartItem is one entry of a checkout request. Fields keep the raw
// decoding outcome so the order composer can report which one is wrong.
type CartItem struct {
	ProductID WholeNumber `json:"product_id"`
	Quantity  WholeNumber `json:"quantity"`
}

// WholeNumber records a JSON value that must be an integer literal.
// Decoding never fails: strings, floats, booleans and null mark it invalid.
type WholeNumber struct {
	Value int64
	Set   bool
	Valid bool
}

func Whole(v int64) WholeNumber { return WholeNumber{Value: v, Set: true, Valid: true} }

func (n *WholeNumber) UnmarshalJSON(b []byte) error {
	n.Set = true
	n.Valid = false
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.ContainsAny(b, `".eE`) {
		return nil
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return nil
	}
	n.Value = v
	n.Valid = true
	return nil
}

func (n WholeNumber) MarshalJSON() ([]byte, error) {
	if !n.Set || !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
