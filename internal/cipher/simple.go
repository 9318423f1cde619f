package cipher

import (
	"bytes"
	gocipher "crypto/cipher"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/blowfish"

	"github.com/RowanDark/cipherkit/internal/logging"
)

const (
	simpleName = "simple"

	simpleIVSize = blowfish.BlockSize
	checksumSize = 16
	separator    = '#'
)

// SimpleCipher is Blowfish-CBC with a keyed checksum embedded in the
// plaintext. It is NOT secure for sensitive data: the checksum is only
// verified after decryption. It produces short URL-safe envelopes and is kept
// for compatibility with existing data.
//
// Plaintext wrapper before encryption:
//
//	<16 char checksum>#<decimal length>#<data>#
type SimpleCipher struct {
	opts *options
}

// NewSimpleCipher builds a simple cipher.
func NewSimpleCipher(opts ...Option) (*SimpleCipher, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	if _, err := blowfish.NewCipher(make([]byte, KeySize)); err != nil {
		return nil, wrapError("new simple cipher", ErrInitialization, err)
	}

	return &SimpleCipher{opts: cfg}, nil
}

// GenerateKey returns a printable KeySize key.
func (c *SimpleCipher) GenerateKey() ([]byte, error) {
	key, err := GenerateKey(c.opts.random, KeySize)
	if err != nil {
		return nil, err
	}
	c.opts.record(simpleName, logging.EventKeyGenerated, logging.DecisionInfo, "", nil)
	return key, nil
}

// Encrypt wraps data with its checksum and returns the packed envelope.
func (c *SimpleCipher) Encrypt(data, key []byte) (string, error) {
	key, err := ValidateKey(key, true)
	if err != nil {
		return "", err
	}

	iv, err := RandomBytes(c.opts.random, simpleIVSize)
	if err != nil {
		return "", wrapError("encrypt", ErrEncryptionFailed, err)
	}

	envelope, err := c.seal(data, key, iv)
	if err != nil {
		return "", wrapError("encrypt", ErrEncryptionFailed, err)
	}

	c.opts.record(simpleName, logging.EventEncrypt, logging.DecisionInfo, "", map[string]any{
		"input_bytes":    len(data),
		"envelope_bytes": len(envelope),
	})
	return envelope, nil
}

// Decrypt decrypts the envelope and validates the embedded checksum. With
// round-trip verification enabled, the recovered data is encrypted again
// with the same IV and must reproduce the input exactly.
func (c *SimpleCipher) Decrypt(data string, key []byte) ([]byte, error) {
	key, err := ValidateKey(key, true)
	if err != nil {
		return nil, err
	}

	raw, err := unpackEnvelope("decrypt", data)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			c.opts.record(simpleName, logging.EventAuthFailure, logging.DecisionDeny, "envelope encoding altered", nil)
		}
		return nil, err
	}
	if len(raw) <= simpleIVSize {
		return nil, newError("decrypt", ErrInvalidData, "envelope of %d bytes is too short", len(raw))
	}

	iv, ciphertext := raw[:simpleIVSize], raw[simpleIVSize:]
	if len(ciphertext)%blowfish.BlockSize != 0 {
		return nil, newError("decrypt", ErrInvalidData, "ciphertext is not a multiple of the block size")
	}

	plain, err := c.open(ciphertext, key, iv)
	if err != nil {
		c.opts.record(simpleName, logging.EventAuthFailure, logging.DecisionDeny, "checksum validation failed", nil)
		return nil, wrapError("decrypt", ErrAuthentication, err)
	}

	if c.opts.roundTrip {
		again, err := c.seal(plain, key, iv)
		if err != nil {
			return nil, wrapError("decrypt", ErrDecryptionFailed, err)
		}
		if !Equals([]byte(again), []byte(data)) {
			c.opts.record(simpleName, logging.EventAuthFailure, logging.DecisionDeny, "round trip mismatch", nil)
			return nil, newError("decrypt", ErrAuthentication, "envelope was tampered with")
		}
	}

	c.opts.record(simpleName, logging.EventDecrypt, logging.DecisionAllow, "", map[string]any{
		"envelope_bytes": len(data),
		"output_bytes":   len(plain),
	})
	return plain, nil
}

func (c *SimpleCipher) seal(data, key, iv []byte) (string, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded := pad(addChecksum(data, key), blowfish.BlockSize)
	out := make([]byte, simpleIVSize+len(padded))
	copy(out, iv)
	gocipher.NewCBCEncrypter(block, iv).CryptBlocks(out[simpleIVSize:], padded)

	return Pack(out), nil
}

func (c *SimpleCipher) open(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, len(ciphertext))
	gocipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = unpad(plain, blowfish.BlockSize)
	if err != nil {
		return nil, err
	}

	return validateChecksum(bytes.TrimRight(plain, "\x00"), key)
}

func checksum(data, key []byte) []byte {
	return []byte(HMACHex(data, key)[:checksumSize])
}

func addChecksum(data, key []byte) []byte {
	length := strconv.Itoa(len(data))

	out := make([]byte, 0, checksumSize+len(length)+len(data)+3)
	out = append(out, checksum(data, key)...)
	out = append(out, separator)
	out = append(out, length...)
	out = append(out, separator)
	out = append(out, data...)
	return append(out, separator)
}

func validateChecksum(data, key []byte) ([]byte, error) {
	if len(data) == 0 || data[len(data)-1] != separator {
		return nil, fmt.Errorf("trailing separator not found")
	}
	data = data[:len(data)-1]

	if bytes.IndexByte(data, separator) != checksumSize {
		return nil, fmt.Errorf("checksum not found")
	}
	sum, rest := data[:checksumSize], data[checksumSize+1:]

	end := bytes.IndexByte(rest, separator)
	if end < 0 {
		return nil, fmt.Errorf("length not found")
	}

	length, err := strconv.Atoi(string(rest[:end]))
	if err != nil {
		return nil, fmt.Errorf("invalid length: %w", err)
	}

	payload := rest[end+1:]
	if length != len(payload) || !Equals(sum, checksum(payload, key)) {
		return nil, fmt.Errorf("checksum does not match")
	}

	return payload, nil
}
