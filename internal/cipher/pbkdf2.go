package cipher

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/pbkdf2"
)

// KeyDerivation stretches password with salt into keyLen bytes using
// PBKDF2-HMAC-SHA256.
type KeyDerivation func(password, salt []byte, iterations, keyLen int) []byte

// NativePBKDF2 uses the golang.org/x/crypto implementation.
func NativePBKDF2(password, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New)
}

// FallbackPBKDF2 implements RFC 2898 directly on top of the HMAC helper. It
// produces the same output as NativePBKDF2 and exists for hosts where the
// native provider is unavailable or disabled by configuration.
func FallbackPBKDF2(password, salt []byte, iterations, keyLen int) []byte {
	if iterations < 1 || keyLen <= 0 {
		return nil
	}

	blocks := (keyLen + sha256.Size - 1) / sha256.Size
	derived := make([]byte, 0, blocks*sha256.Size)

	seed := make([]byte, len(salt)+4)
	copy(seed, salt)

	for i := 1; i <= blocks; i++ {
		binary.BigEndian.PutUint32(seed[len(salt):], uint32(i))

		u := HMAC(seed, password)
		block := make([]byte, len(u))
		copy(block, u)

		for j := 2; j <= iterations; j++ {
			u = HMAC(u, password)
			for k := range block {
				block[k] ^= u[k]
			}
		}
		derived = append(derived, block...)
	}

	return derived[:keyLen]
}
