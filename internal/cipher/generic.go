package cipher

import (
	"crypto"
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/sha256"
	"errors"

	"github.com/RowanDark/cipherkit/internal/logging"
)

const (
	genericName = "generic"

	defaultEncryptionSalt    = "cipherkit:encryption-key-salt"
	defaultAuthorizationSalt = "cipherkit:authorization-key-salt"

	// pbkdf2Iterations is the PBKDF2 work factor for both derived keys.
	pbkdf2Iterations = 1024
	// genericKeySize selects AES-128.
	genericKeySize = 16
	genericIVSize  = aes.BlockSize
	tagSize        = sha256.Size
)

// GenericCipher is AES-128-CBC with PBKDF2 derived keys and an
// encrypt-then-MAC HMAC-SHA256 tag over IV and ciphertext.
//
// Envelope layout before packing:
//
//	[32 bytes tag][16 bytes IV][ciphertext]
type GenericCipher struct {
	opts *options
}

// NewGenericCipher builds a generic cipher. Construction fails when the host
// lacks SHA-256 or AES-128, or when an option is invalid.
func NewGenericCipher(opts ...Option) (*GenericCipher, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	if !crypto.SHA256.Available() {
		return nil, newError("new generic cipher", ErrInitialization, "hash sha256 is not supported")
	}
	if _, err := aes.NewCipher(make([]byte, genericKeySize)); err != nil {
		return nil, wrapError("new generic cipher", ErrInitialization, err)
	}

	return &GenericCipher{opts: cfg}, nil
}

// GenerateKey returns a printable KeySize key.
func (c *GenericCipher) GenerateKey() ([]byte, error) {
	key, err := GenerateKey(c.opts.random, KeySize)
	if err != nil {
		return nil, err
	}
	c.opts.record(genericName, logging.EventKeyGenerated, logging.DecisionInfo, "", nil)
	return key, nil
}

// Encrypt seals data and returns the packed envelope.
func (c *GenericCipher) Encrypt(data, key []byte) (string, error) {
	key, err := ValidateKey(key, true)
	if err != nil {
		return "", err
	}

	iv, err := RandomBytes(c.opts.random, genericIVSize)
	if err != nil {
		return "", wrapError("encrypt", ErrEncryptionFailed, err)
	}

	block, err := aes.NewCipher(c.deriveKey(key, c.opts.encryptSalt))
	if err != nil {
		return "", wrapError("encrypt", ErrEncryptionFailed, err)
	}

	padded := pad(data, aes.BlockSize)
	payload := make([]byte, genericIVSize+len(padded))
	copy(payload, iv)
	gocipher.NewCBCEncrypter(block, iv).CryptBlocks(payload[genericIVSize:], padded)

	tag := HMAC(payload, c.deriveKey(key, c.opts.authorizeSalt))

	envelope := Pack(append(tag, payload...))
	c.opts.record(genericName, logging.EventEncrypt, logging.DecisionInfo, "", map[string]any{
		"input_bytes":    len(data),
		"envelope_bytes": len(envelope),
	})
	return envelope, nil
}

// Decrypt verifies the tag before attempting any decryption.
func (c *GenericCipher) Decrypt(data string, key []byte) ([]byte, error) {
	key, err := ValidateKey(key, true)
	if err != nil {
		return nil, err
	}

	raw, err := unpackEnvelope("decrypt", data)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			c.opts.record(genericName, logging.EventAuthFailure, logging.DecisionDeny, "envelope encoding altered", nil)
		}
		return nil, err
	}
	if len(raw) <= tagSize+genericIVSize {
		return nil, newError("decrypt", ErrInvalidData, "envelope of %d bytes is too short", len(raw))
	}

	tag, payload := raw[:tagSize], raw[tagSize:]
	if !Equals(tag, HMAC(payload, c.deriveKey(key, c.opts.authorizeSalt))) {
		c.opts.record(genericName, logging.EventAuthFailure, logging.DecisionDeny, "tag mismatch", nil)
		return nil, newError("decrypt", ErrAuthentication, "tag does not match")
	}

	iv, ciphertext := payload[:genericIVSize], payload[genericIVSize:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, newError("decrypt", ErrInvalidData, "ciphertext is not a multiple of the block size")
	}

	block, err := aes.NewCipher(c.deriveKey(key, c.opts.encryptSalt))
	if err != nil {
		return nil, wrapError("decrypt", ErrDecryptionFailed, err)
	}

	plain := make([]byte, len(ciphertext))
	gocipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, wrapError("decrypt", ErrDecryptionFailed, err)
	}

	c.opts.record(genericName, logging.EventDecrypt, logging.DecisionAllow, "", map[string]any{
		"envelope_bytes": len(data),
		"output_bytes":   len(plain),
	})
	return plain, nil
}

func (c *GenericCipher) deriveKey(key, salt []byte) []byte {
	return c.opts.kdf(key, salt, pbkdf2Iterations, genericKeySize)
}
