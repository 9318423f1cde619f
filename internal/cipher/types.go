package cipher

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/RowanDark/cipherkit/internal/logging"
)

// Cipher encrypts and decrypts data with a shared key.
type Cipher interface {
	// GenerateKey returns a fresh key suitable for this cipher
	GenerateKey() ([]byte, error)

	// Encrypt returns the URL-safe envelope for data
	Encrypt(data, key []byte) (string, error)

	// Decrypt authenticates the envelope and returns the original data
	Decrypt(data string, key []byte) ([]byte, error)
}

// Option configures a cipher at construction time.
type Option func(*options) error

type options struct {
	random        io.Reader
	encryptSalt   []byte
	authorizeSalt []byte
	kdf           KeyDerivation
	audit         *logging.AuditLogger
	roundTrip     bool
}

func defaultOptions() *options {
	return &options{
		random:        rand.Reader,
		encryptSalt:   []byte(defaultEncryptionSalt),
		authorizeSalt: []byte(defaultAuthorizationSalt),
		kdf:           NativePBKDF2,
	}
}

func applyOptions(opts []Option) (*options, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithRandom overrides the source used for IVs and generated keys.
func WithRandom(r io.Reader) Option {
	return func(o *options) error {
		if r == nil {
			return newError("configure", ErrInitialization, "random source cannot be nil")
		}
		o.random = r
		return nil
	}
}

// WithSalts overrides the key derivation salts of the generic cipher. Both
// salts must be at least KeySize bytes long.
func WithSalts(encryption, authorization []byte) Option {
	return func(o *options) error {
		if len(encryption) < KeySize {
			return newError("configure", ErrInitialization, "encryption salt should be at least %d bytes long", KeySize)
		}
		if len(authorization) < KeySize {
			return newError("configure", ErrInitialization, "authorization salt should be at least %d bytes long", KeySize)
		}
		o.encryptSalt = bytes.Clone(encryption)
		o.authorizeSalt = bytes.Clone(authorization)
		return nil
	}
}

// WithKeyDerivation selects the PBKDF2 implementation of the generic cipher.
func WithKeyDerivation(kdf KeyDerivation) Option {
	return func(o *options) error {
		if kdf == nil {
			return newError("configure", ErrInitialization, "key derivation cannot be nil")
		}
		o.kdf = kdf
		return nil
	}
}

// WithAuditLogger attaches an audit logger recording cipher activity. Keys
// and plaintext are never logged.
func WithAuditLogger(logger *logging.AuditLogger) Option {
	return func(o *options) error {
		if logger != nil {
			o.audit = logger
		}
		return nil
	}
}

// WithRoundTripVerification makes the simple cipher re-encrypt recovered
// plaintext with the original IV and compare it against the input envelope.
func WithRoundTripVerification() Option {
	return func(o *options) error {
		o.roundTrip = true
		return nil
	}
}
