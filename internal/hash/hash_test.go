package hash

import (
	"encoding/hex"
	"errors"
	"sort"
	"testing"
)

func TestGenericHashVectors(t *testing.T) {
	tests := []struct {
		algorithm string
		input     string
		expected  string
	}{
		{"md5", "hello", "5d41402abc4b2a76b9719d911017c592"},
		{"sha1", "hello", "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{"sha256", "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{"sha512", "hello", "9b71d224bd62f3785d96d46ad3ea3d73319bfbc2890caadae2dff72519673ca72323c3d99ba5c11d7c7acc6e14b8c5da0c4663475c2e5c3adef46f73bcdec043"},
		{"sha3-256", "", "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
		{"blake2b-256", "", "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"},
		{"blake2s-256", "", "69217a3079908094e11121d042354a7c1f55b6482ca1a51e1b250dfd1ed0eef9"},
		{"SHA256", "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{"", "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			h, err := NewGenericHash(tt.algorithm, false)
			if err != nil {
				t.Fatalf("NewGenericHash: %v", err)
			}
			if got := string(h.Hash([]byte(tt.input))); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestGenericHashRaw(t *testing.T) {
	hexHash, _ := NewGenericHash("sha256", false)
	rawHash, err := NewGenericHash("sha256", true)
	if err != nil {
		t.Fatalf("NewGenericHash: %v", err)
	}
	raw := rawHash.Hash([]byte("hello"))
	if len(raw) != 32 {
		t.Fatalf("expected 32 raw bytes, got %d", len(raw))
	}
	if hex.EncodeToString(raw) != string(hexHash.Hash([]byte("hello"))) {
		t.Fatal("raw and hex digests disagree")
	}
}

func TestEveryAlgorithmHashes(t *testing.T) {
	for _, name := range Algorithms() {
		h, err := NewGenericHash(name, true)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if h.Algorithm() != name {
			t.Fatalf("expected algorithm %s, got %s", name, h.Algorithm())
		}
		if len(h.Hash([]byte("data"))) == 0 {
			t.Fatalf("%s: empty digest", name)
		}
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewGenericHash("whirlpool", false)
	if !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}

func TestAlgorithmsSorted(t *testing.T) {
	names := Algorithms()
	if !sort.StringsAreSorted(names) {
		t.Fatalf("algorithms not sorted: %v", names)
	}
	if len(names) != 12 {
		t.Fatalf("expected 12 algorithms, got %d", len(names))
	}
}

func TestPlainHash(t *testing.T) {
	var h Hash = PlainHash{}
	in := []byte("as\x00is")
	if got := h.Hash(in); string(got) != string(in) {
		t.Fatalf("expected identity, got %q", got)
	}
}
