package cipher

import (
	"errors"
	"fmt"
)

var (
	// ErrInitialization indicates a host primitive (digest, HMAC, CSPRNG,
	// block cipher) is missing or unusable.
	ErrInitialization = errors.New("cipher initialization failed")
	// ErrInvalidKey indicates the key is empty or shorter than KeySize.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidInput indicates a helper received an out-of-range argument.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidData indicates the envelope is too short or malformed.
	ErrInvalidData = errors.New("invalid encrypted data")
	// ErrAuthentication indicates a tag or checksum mismatch: the envelope
	// was tampered with or the key is wrong.
	ErrAuthentication = errors.New("authentication failed")
	// ErrEncryptionFailed indicates an underlying primitive failed while encrypting.
	ErrEncryptionFailed = errors.New("encryption failed")
	// ErrDecryptionFailed indicates an underlying primitive failed while decrypting.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrInvalidArgument indicates an invalid chain or registry argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound indicates a cipher, link or recipe could not be found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyChain indicates an operation needs at least one chain link.
	ErrEmptyChain = errors.New("chain has no ciphers")
)

// Error carries the kind of a failure together with the operation that
// produced it and, optionally, the lower-level cause.
type Error struct {
	Op   string
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg = msg + ": " + e.Msg
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(op string, kind error, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

