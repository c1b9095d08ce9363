// Package sessionid generates sortable session identifiers: a UUIDv7
// written as 26 characters of Crockford base32.
package sessionid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32, lower case.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the encoded length of an id.
const Length = 26

// New returns a fresh session id.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("sessionid: failed to generate uuid: " + err.Error())
	}
	return Encode(id)
}

// NewFromReader returns a session id whose random bits come from r.
func NewFromReader(r io.Reader) (string, error) {
	id, err := uuid.NewV7FromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return Encode(id), nil
}

// Encode writes the 128 bits of id behind two zero bits, five bits per
// character, so the first character is always 0-7.
func Encode(id uuid.UUID) string {
	var out [Length]byte
	for i := range out {
		var v byte
		for b := 0; b < 5; b++ {
			v <<= 1
			pos := i*5 + b - 2
			if pos >= 0 && id[pos/8]&(0x80>>(pos%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out[:])
}

// Decode reverses Encode.
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if len(s) != Length {
		return id, fmt.Errorf("session ID must be exactly %d characters, got %d", Length, len(s))
	}
	for i := 0; i < Length; i++ {
		v := strings.IndexByte(alphabet, s[i])
		if v < 0 {
			return id, fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
		for b := 0; b < 5; b++ {
			bit := (v >> (4 - b)) & 1
			pos := i*5 + b - 2
			if pos < 0 {
				if bit != 0 {
					return id, fmt.Errorf("session ID first character must be 0-7, got %c", s[0])
				}
				continue
			}
			if bit == 1 {
				id[pos/8] |= 0x80 >> (pos % 8)
			}
		}
	}
	return id, nil
}

// Validate checks that id decodes to a version 7 UUID.
func Validate(id string) error {
	u, err := Decode(id)
	if err != nil {
		return err
	}
	if u.Version() != 7 {
		return fmt.Errorf("session ID is uuid version %d, want 7", u.Version())
	}
	return nil
}
