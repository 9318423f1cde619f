package cipher

import (
	"strings"
	"testing"
)

func TestInspectGenericEnvelope(t *testing.T) {
	c, key := newTestGeneric(t)
	envelope, err := c.Encrypt([]byte("A super secret message"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	detections := Inspect(envelope)
	if len(detections) == 0 {
		t.Fatal("expected detections")
	}
	if detections[0].Cipher != genericName {
		t.Fatalf("expected generic first, got %+v", detections)
	}
	for i := 1; i < len(detections); i++ {
		if detections[i].Confidence > detections[i-1].Confidence {
			t.Fatalf("detections not sorted: %+v", detections)
		}
	}
}

func TestInspectSimpleEnvelope(t *testing.T) {
	c, key := newTestSimple(t)
	envelope, err := c.Encrypt([]byte("A super secret message"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	detections := Inspect(envelope)
	if len(detections) != 1 || detections[0].Cipher != simpleName {
		t.Fatalf("expected only simple, got %+v", detections)
	}
	if detections[0].Confidence <= 0 || detections[0].Confidence > 1 {
		t.Fatalf("confidence out of range: %v", detections[0].Confidence)
	}
	if !strings.Contains(detections[0].Reasoning, "8 byte IV") {
		t.Fatalf("unexpected reasoning %q", detections[0].Reasoning)
	}
}

func TestInspectRejectsNonEnvelopes(t *testing.T) {
	for _, in := range []string{"", "   ", "has spaces in it", "a+b/c=", "-_9", Pack([]byte("tiny"))} {
		if got := Inspect(in); len(got) != 0 {
			t.Fatalf("Inspect(%q) = %+v, expected nothing", in, got)
		}
	}
}

func TestCalculateEntropy(t *testing.T) {
	if calculateEntropy(nil) != 0 {
		t.Fatal("expected zero entropy for empty input")
	}
	if calculateEntropy([]byte("aaaa")) != 0 {
		t.Fatal("expected zero entropy for constant input")
	}
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	if e := calculateEntropy(all); e < 7.99 || e > 8.01 {
		t.Fatalf("expected 8 bits of entropy, got %v", e)
	}
}
