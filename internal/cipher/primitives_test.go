package cipher

import (
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

func TestGenerateKeyRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		key, err := GenerateKey(rand.Reader, KeySize)
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		if len(key) != KeySize {
			t.Fatalf("expected %d bytes, got %d", KeySize, len(key))
		}
		for _, c := range key {
			if c < 40 || c > 85 {
				t.Fatalf("key byte %d outside [40, 85]", c)
			}
		}
	}
}

func TestGenerateKeyDeterministicWindow(t *testing.T) {
	// Seed 0x01 0x23 0x45 hex-encodes to "012345"; windows are 0+1+2 and 1+2+3.
	key, err := GenerateKey(bytes.NewReader([]byte{0x01, 0x23, 0x45}), 1)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if key[0] != 40+0+1+2 {
		t.Fatalf("unexpected key byte %d", key[0])
	}

	key, err = GenerateKey(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}), 2)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if !bytes.Equal(key, []byte{85, 85}) {
		t.Fatalf("expected maximum key bytes, got %v", key)
	}
}

func TestGenerateKeyFailures(t *testing.T) {
	if _, err := GenerateKey(failingReader{}, KeySize); !errors.Is(err, ErrInitialization) {
		t.Fatalf("expected ErrInitialization, got %v", err)
	}
	if _, err := GenerateKey(rand.Reader, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name     string
		key      []byte
		truncate bool
		want     []byte
		wantErr  bool
	}{
		{name: "empty", key: nil, wantErr: true},
		{name: "too short", key: []byte("short"), wantErr: true},
		{name: "exact", key: []byte("0123456789abcdef"), truncate: true, want: []byte("0123456789abcdef")},
		{name: "truncated", key: []byte("0123456789abcdefXYZ"), truncate: true, want: []byte("0123456789abcdef")},
		{name: "kept whole", key: []byte("0123456789abcdefXYZ"), truncate: false, want: []byte("0123456789abcdefXYZ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateKey(tt.key, tt.truncate)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("expected ErrInvalidKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateKey: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateKeyReturnsCopy(t *testing.T) {
	raw := []byte("0123456789abcdef")
	key, err := ValidateKey(raw, true)
	if err != nil {
		t.Fatalf("ValidateKey: %v", err)
	}
	raw[0] = 'X'
	if key[0] != '0' {
		t.Fatal("caller mutation leaked into validated key")
	}
}

func TestHMACKnownVector(t *testing.T) {
	// RFC 4231 test case 2.
	got := HMACHex([]byte("what do ya want for nothing?"), []byte("Jefe"))
	want := "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if len(HMAC([]byte("data"), []byte("key"))) != 32 {
		t.Fatal("expected 32 byte raw HMAC")
	}
}

func TestRandomBytes(t *testing.T) {
	b, err := RandomBytes(rand.Reader, 24)
	if err != nil || len(b) != 24 {
		t.Fatalf("expected 24 bytes, got %d (%v)", len(b), err)
	}
	if _, err := RandomBytes(rand.Reader, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for n=0, got %v", err)
	}
	if _, err := RandomBytes(rand.Reader, -3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for n<0, got %v", err)
	}
	if _, err := RandomBytes(nil, 8); !errors.Is(err, ErrInitialization) {
		t.Fatalf("expected ErrInitialization for nil source, got %v", err)
	}
	_, err = RandomBytes(failingReader{}, 8)
	if !errors.Is(err, ErrInitialization) {
		t.Fatalf("expected ErrInitialization for failing source, got %v", err)
	}
	if !strings.Contains(err.Error(), "entropy source unavailable") {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestPackUnpack(t *testing.T) {
	// 0xfb 0xff encodes to "+/8=" in standard base64.
	packed := Pack([]byte{0xfb, 0xff})
	if packed != "-_8" {
		t.Fatalf("expected URL-safe unpadded encoding, got %q", packed)
	}

	for _, in := range []string{"-_8", "-_8="} {
		out, err := Unpack(in)
		if err != nil {
			t.Fatalf("Unpack(%q): %v", in, err)
		}
		if !bytes.Equal(out, []byte{0xfb, 0xff}) {
			t.Fatalf("Unpack(%q) = %v", in, out)
		}
	}

	for _, bad := range []string{"+/8", "a", "-_9", "ab$d"} {
		if _, err := Unpack(bad); !errors.Is(err, ErrInvalidData) {
			t.Fatalf("Unpack(%q): expected ErrInvalidData, got %v", bad, err)
		}
	}
}

func TestPackRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		packed := Pack(data)
		if strings.ContainsAny(packed, "+/=") {
			t.Fatalf("packed form %q is not URL safe", packed)
		}
		out, err := Unpack(packed)
		if err != nil {
			t.Fatalf("Unpack: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round trip mismatch")
		}
	})
}

func TestEquals(t *testing.T) {
	for _, n := range []int{0, 1, 1024} {
		a := make([]byte, n)
		if _, err := rand.Read(a); err != nil {
			t.Fatalf("rand: %v", err)
		}
		b := bytes.Clone(a)

		if !Equals(a, b) {
			t.Fatalf("len %d: identical inputs reported unequal", n)
		}
		if Equals(a, append(bytes.Clone(b), 0)) {
			t.Fatalf("len %d: length mismatch reported equal", n)
		}
		for i := 0; i < n; i++ {
			c := bytes.Clone(b)
			c[i] ^= 0x01
			if Equals(a, c) {
				t.Fatalf("len %d: difference at %d not detected", n, i)
			}
		}
	}
}

func TestEqualsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SliceOf(rapid.Byte()).Draw(t, "a")
		b := rapid.SliceOf(rapid.Byte()).Draw(t, "b")
		if Equals(a, b) != bytes.Equal(a, b) {
			t.Fatalf("Equals disagrees with bytes.Equal for %v and %v", a, b)
		}
	})
}

func TestPadUnpad(t *testing.T) {
	for n := 0; n <= 33; n++ {
		data := bytes.Repeat([]byte{'x'}, n)
		padded := pad(data, 16)
		if len(padded)%16 != 0 || len(padded) <= n {
			t.Fatalf("len %d: bad padded length %d", n, len(padded))
		}
		out, err := unpad(padded, 16)
		if err != nil {
			t.Fatalf("len %d: unpad: %v", n, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("len %d: mismatch", n)
		}
	}

	bad := [][]byte{
		{},
		bytes.Repeat([]byte{0}, 8),
		append(bytes.Repeat([]byte{'x'}, 7), 9),
		append(bytes.Repeat([]byte{'x'}, 6), 1, 2),
	}
	for _, b := range bad {
		if _, err := unpad(b, 8); err == nil {
			t.Fatalf("expected unpad(%v) to fail", b)
		}
	}
}
