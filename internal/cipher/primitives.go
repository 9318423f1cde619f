package cipher

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// KeySize is the minimum key length and the length keys are truncated to.
const KeySize = 16

// keyCharBase is the first character of the printable range generated keys
// are drawn from. Three hex digits sum to at most 45, so keys stay in [40, 85].
const keyCharBase = 40

// GenerateKey derives a printable key of size bytes from size+2 random bytes.
// Each output character is keyCharBase plus the sum of a sliding window of
// three hex digits of the random seed.
func GenerateKey(rand io.Reader, size int) ([]byte, error) {
	if size <= 0 {
		return nil, newError("generate key", ErrInvalidInput, "key size must be positive, got %d", size)
	}

	seed, err := RandomBytes(rand, size+2)
	if err != nil {
		return nil, err
	}
	digits := hex.EncodeToString(seed)

	key := make([]byte, size)
	for i := 0; i < size; i++ {
		key[i] = byte(keyCharBase + hexValue(digits[i]) + hexValue(digits[i+1]) + hexValue(digits[i+2]))
	}
	return key, nil
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return 0
	}
}

// ValidateKey checks the key length and returns a private copy, truncated to
// KeySize when truncate is set.
func ValidateKey(raw []byte, truncate bool) ([]byte, error) {
	switch {
	case len(raw) == 0:
		return nil, newError("validate key", ErrInvalidKey, "key is empty")
	case len(raw) < KeySize:
		return nil, newError("validate key", ErrInvalidKey, "key should be at least %d bytes long, got %d", KeySize, len(raw))
	}

	if truncate {
		raw = raw[:KeySize]
	}
	return bytes.Clone(raw), nil
}

// HMAC returns the raw HMAC-SHA256 of data keyed by key.
func HMAC(data, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HMACHex returns the lowercase hex form of HMAC.
func HMACHex(data, key []byte) string {
	return hex.EncodeToString(HMAC(data, key))
}

// RandomBytes reads n bytes from rand.
func RandomBytes(rand io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, newError("random bytes", ErrInvalidInput, "length must be positive, got %d", n)
	}
	if rand == nil {
		return nil, newError("random bytes", ErrInitialization, "no random source configured")
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(rand, b); err != nil {
		return nil, wrapError("random bytes", ErrInitialization, err)
	}
	return b, nil
}

// Pack encodes data as unpadded URL-safe base64.
func Pack(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Unpack decodes a string produced by Pack. Trailing padding is tolerated;
// non-canonical encodings are rejected so every character of an envelope is
// significant.
func Unpack(data string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.Strict().DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return nil, wrapError("unpack", ErrInvalidData, err)
	}
	return decoded, nil
}

// unpackEnvelope decodes an envelope on the decrypt path. Only a length no
// base64 string can have is structural; any other decoding failure means a
// character of the envelope was altered and is reported as ErrAuthentication.
func unpackEnvelope(op, data string) ([]byte, error) {
	trimmed := strings.TrimRight(data, "=")
	if len(trimmed)%4 == 1 {
		return nil, newError(op, ErrInvalidData, "envelope length %d is not valid base64", len(trimmed))
	}
	decoded, err := base64.RawURLEncoding.Strict().DecodeString(trimmed)
	if err != nil {
		return nil, wrapError(op, ErrAuthentication, err)
	}
	return decoded, nil
}

// Equals compares a and b in time that depends only on their length.
func Equals(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	var status byte
	for i := 0; i < len(a); i++ {
		status |= a[i] ^ b[i]
	}
	return status == 0
}

// pad applies PKCS#7 padding up to a multiple of blockSize.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data), len(data)+n)
	copy(padded, data)
	return append(padded, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips PKCS#7 padding.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("padded data length %d is not a multiple of %d", len(data), blockSize)
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
