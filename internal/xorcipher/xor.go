// Package xorcipher implements the 2-byte repeating-key XOR transform.
// The transform is its own inverse, so the same functions encrypt and decrypt.
package xorcipher

import (
	"encoding/hex"
	"unicode/utf8"

	"github.com/gcbaptista/go-xor-breaker/internal/errors"
)

// KeySize is the only key length supported.
const KeySize = 2

// KeySpace is the number of distinct keys.
const KeySpace = 1 << (8 * KeySize)

// Key is a 2-byte repeating XOR key.
type Key [KeySize]byte

// String renders the key as two single-byte characters (byte value == code point).
func (k Key) String() string {
	return string([]rune{rune(k[0]), rune(k[1])})
}

// Hex renders the key as lowercase hex.
func (k Key) Hex() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns the key as a fresh slice.
func (k Key) Bytes() []byte {
	return []byte{k[0], k[1]}
}

// ParseKey reads a caller-supplied literal key. Each character is one key
// byte, so "ab" is {0x61, 0x62} and "éx" is {0xe9, 0x78}.
func ParseKey(s string) (Key, error) {
	var k Key
	n := utf8.RuneCountInString(s)
	if n != KeySize {
		return k, errors.NewInvalidKeyLengthError(n)
	}
	i := 0
	for _, r := range s {
		if r > 0xff {
			return k, errors.NewInvalidKeyError(i, r)
		}
		k[i] = byte(r)
		i++
	}
	return k, nil
}

// ParseHexKey reads a key written as 4 hex digits.
func ParseHexKey(s string) (Key, error) {
	var k Key
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, errors.NewValidationError("key", "key is not valid hex: "+err.Error())
	}
	if len(b) != KeySize {
		return k, errors.NewInvalidKeyLengthError(len(b))
	}
	copy(k[:], b)
	return k, nil
}

// ResolveKey parses a key given either as two literal characters or as
// 4 hex digits. Exactly one of the two must be set.
func ResolveKey(literal, hexKey string) (Key, error) {
	switch {
	case literal != "" && hexKey != "":
		return Key{}, errors.NewValidationError("key", "set either a literal key or a hex key, not both")
	case hexKey != "":
		return ParseHexKey(hexKey)
	default:
		return ParseKey(literal)
	}
}

// Transform returns data XOR-ed with the repeating key.
func Transform(data []byte, key Key) []byte {
	out := make([]byte, len(data))
	TransformInto(out, data, key)
	return out
}

// TransformInto writes src XOR key into dst. Panics if dst is shorter than src.
func TransformInto(dst, src []byte, key Key) {
	_ = dst[:len(src)]
	n := len(src) &^ 1
	for i := 0; i < n; i += 2 {
		dst[i] = src[i] ^ key[0]
		dst[i+1] = src[i+1] ^ key[1]
	}
	if n < len(src) {
		dst[n] = src[n] ^ key[0]
	}
}

// Encrypt applies the key to plaintext through a lookup table.
func Encrypt(plaintext []byte, key Key) []byte {
	return NewTable(key).Transform(plaintext)
}

// Decrypt applies the key to ciphertext through a lookup table.
func Decrypt(ciphertext []byte, key Key) []byte {
	return NewTable(key).Transform(ciphertext)
}
