// Package hash provides digest adapters that share the cipher package's
// byte-in, byte-out surface.
package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	gohash "hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is used when NewGenericHash is given an empty name.
const DefaultAlgorithm = "sha256"

// ErrUnsupportedAlgorithm is returned for digest names Algorithms does not list.
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

// Hash turns data into a digest.
type Hash interface {
	Hash(data []byte) []byte
}

var constructors = map[string]func() gohash.Hash{
	"md5":        md5.New,
	"sha1":       sha1.New,
	"sha224":     sha256.New224,
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512/256": sha512.New512_256,
	"sha3-256":   sha3.New256,
	"sha3-512":   sha3.New512,
	"blake2b-256": func() gohash.Hash {
		h, _ := blake2b.New256(nil)
		return h
	},
	"blake2b-512": func() gohash.Hash {
		h, _ := blake2b.New512(nil)
		return h
	},
	"blake2s-256": func() gohash.Hash {
		h, _ := blake2s.New256(nil)
		return h
	},
}

// Algorithms lists the supported digest names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenericHash computes a named digest, hex encoded unless raw is set.
type GenericHash struct {
	algorithm string
	raw       bool
	newHash   func() gohash.Hash
}

func NewGenericHash(algorithm string, raw bool) (*GenericHash, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if name == "" {
		name = DefaultAlgorithm
	}
	newHash, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedAlgorithm, algorithm, strings.Join(Algorithms(), ", "))
	}
	return &GenericHash{algorithm: name, raw: raw, newHash: newHash}, nil
}

// Algorithm reports the normalised digest name.
func (g *GenericHash) Algorithm() string { return g.algorithm }

func (g *GenericHash) Hash(data []byte) []byte {
	h := g.newHash()
	h.Write(data)
	sum := h.Sum(nil)
	if g.raw {
		return sum
	}
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}

// PlainHash returns its input unchanged.
type PlainHash struct{}

func (PlainHash) Hash(data []byte) []byte { return data }
