package cipher

import (
	"fmt"
	"sort"
	"sync"
)

// Descriptor describes a named cipher implementation.
type Descriptor struct {
	Name        string
	Description string
	// Secure is false for ciphers kept only for compatibility
	Secure bool
	New    func(opts ...Option) (Cipher, error)
}

// Global cipher registry
var (
	cipherRegistry = make(map[string]Descriptor)
	registryMu     sync.RWMutex
)

// RegisterCipher adds a cipher to the global registry
func RegisterCipher(d Descriptor) error {
	if d.Name == "" {
		return newError("register cipher", ErrInvalidArgument, "cipher name cannot be empty")
	}
	if d.New == nil {
		return newError("register cipher", ErrInvalidArgument, "cipher %s has no constructor", d.Name)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := cipherRegistry[d.Name]; exists {
		return newError("register cipher", ErrInvalidArgument, "cipher %s is already registered", d.Name)
	}

	cipherRegistry[d.Name] = d
	return nil
}

// LookupCipher retrieves a descriptor by name
func LookupCipher(name string) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, exists := cipherRegistry[name]
	return d, exists
}

// NewCipher constructs the named cipher with the given options.
func NewCipher(name string, opts ...Option) (Cipher, error) {
	d, ok := LookupCipher(name)
	if !ok {
		return nil, newError("new cipher", ErrNotFound, "unknown cipher %q", name)
	}

	c, err := d.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("cipher %s: %w", name, err)
	}
	return c, nil
}

// ListCiphers returns all registered ciphers sorted by name
func ListCiphers() []Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Descriptor, 0, len(cipherRegistry))
	for _, d := range cipherRegistry {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// UnregisterCipher removes a cipher from the registry (mainly for testing)
func UnregisterCipher(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(cipherRegistry, name)
}

// ClearRegistry removes all ciphers (mainly for testing)
func ClearRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()

	cipherRegistry = make(map[string]Descriptor)
}

func init() {
	registerBuiltins()
}

func registerBuiltins() {
	_ = RegisterCipher(Descriptor{
		Name:        genericName,
		Description: "AES-128-CBC with PBKDF2 derived keys and an HMAC-SHA256 tag",
		Secure:      true,
		New: func(opts ...Option) (Cipher, error) {
			c, err := NewGenericCipher(opts...)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	})
	_ = RegisterCipher(Descriptor{
		Name:        simpleName,
		Description: "Blowfish-CBC with an embedded checksum (legacy, not secure for sensitive data)",
		Secure:      false,
		New: func(opts ...Option) (Cipher, error) {
			c, err := NewSimpleCipher(opts...)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	})
}
