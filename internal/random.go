package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Token is the raw form of an opaque session token: 192 bits from
// crypto/rand, rendered as padless base64url.
type Token [24]byte

const encodedTokenLen = 32

func NewToken() (Token, error) {
	var tok Token
	_, err := rand.Read(tok[:])
	return tok, err
}

func (t Token) Bytes() []byte {
	return t[:]
}

func (t Token) String() string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(t[:])
}

// ParseToken rejects anything that is not a well-formed encoded token
// before it can reach a storage lookup.
func ParseToken(token string) (Token, error) {
	var tok Token

	if len(token) != encodedTokenLen {
		return tok, errors.New("invalid token size")
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return tok, err
	}
	if len(raw) != len(tok) {
		return tok, errors.New("invalid token size")
	}

	copy(tok[:], raw)
	return tok, nil
}
