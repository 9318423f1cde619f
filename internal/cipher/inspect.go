package cipher

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Detection is a candidate cipher for an envelope.
type Detection struct {
	Cipher     string  `json:"cipher"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Reasoning  string  `json:"reasoning"`
}

var envelopePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Inspect guesses which registered cipher produced an envelope by looking at
// its alphabet, decoded length and block alignment. It never decrypts, so a
// match says nothing about authenticity.
func Inspect(envelope string) []Detection {
	envelope = strings.TrimSpace(envelope)
	if envelope == "" || !envelopePattern.MatchString(envelope) {
		return nil
	}

	raw, err := Unpack(envelope)
	if err != nil {
		return nil
	}

	results := []Detection{}
	results = append(results, detectGeneric(raw)...)
	results = append(results, detectSimple(raw)...)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

func detectGeneric(raw []byte) []Detection {
	body := len(raw) - tagSize - genericIVSize
	if body <= 0 || body%16 != 0 {
		return nil
	}

	confidence := 0.6 + entropyBonus(raw)
	return []Detection{{
		Cipher:     genericName,
		Confidence: math.Min(confidence, 0.95),
		Reasoning:  fmt.Sprintf("%d byte tag, %d byte IV and %d ciphertext blocks", tagSize, genericIVSize, body/16),
	}}
}

func detectSimple(raw []byte) []Detection {
	body := len(raw) - simpleIVSize
	if body <= 0 || body%8 != 0 {
		return nil
	}

	// The wrapper alone is at least 20 bytes, so one padded block is too short.
	confidence := 0.4 + entropyBonus(raw)
	if body < 24 {
		confidence = 0.2
	}
	// 16 byte alignment also satisfies 8 byte alignment; the generic layout
	// is the more specific match.
	if (len(raw)-tagSize-genericIVSize) > 0 && (len(raw)-tagSize-genericIVSize)%16 == 0 {
		confidence -= 0.2
	}

	return []Detection{{
		Cipher:     simpleName,
		Confidence: math.Max(confidence, 0.1),
		Reasoning:  fmt.Sprintf("%d byte IV and %d ciphertext blocks", simpleIVSize, body/8),
	}}
}

// entropyBonus rewards payloads that look uniformly random.
func entropyBonus(data []byte) float64 {
	// Short inputs cannot reach 8 bits per byte; compare against the maximum
	// achievable for their length.
	maxEntropy := math.Log2(math.Min(float64(len(data)), 256))
	if maxEntropy == 0 {
		return 0
	}
	return 0.3 * calculateEntropy(data) / maxEntropy
}

// calculateEntropy calculates Shannon entropy of the input
func calculateEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	freq := make(map[byte]int)
	for _, b := range data {
		freq[b]++
	}

	entropy := 0.0
	dataLen := float64(len(data))
	for _, count := range freq {
		p := float64(count) / dataLen
		entropy -= p * math.Log2(p)
	}

	return entropy
}
