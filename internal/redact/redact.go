// Package redact masks key material and envelopes before values are written
// to logs.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	neverPersistKey = "never_persist"
	redactedSecret  = "[REDACTED_SECRET]"
	redactedData    = "[REDACTED_DATA]"
)

// sensitiveKeys are map keys whose values are always masked.
var sensitiveKeys = map[string]struct{}{
	"key":       {},
	"secret":    {},
	"password":  {},
	"plaintext": {},
	"salt":      {},
	"envelope":  {},
}

var (
	kvSecretRe = regexp.MustCompile(`(?i)((?:key|secret|password|salt)\s*[:=]\s*)(['\"]?)([^\s'\"]{4,})(['\"]?)`)
	// Envelopes and hex digests. The shortest envelope is 43 characters;
	// operation ids (36) stay readable.
	envelopeRe = regexp.MustCompile(`[A-Za-z0-9_-]{40,}`)
)

// String redacts key assignments and envelope-like tokens from in.
func String(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	masked := kvSecretRe.ReplaceAllString(in, `$1$2`+redactedSecret+`$4`)
	masked = envelopeRe.ReplaceAllStringFunc(masked, func(match string) string {
		if strings.Contains(match, "REDACTED") {
			return match
		}
		return redactedData
	})
	return masked
}

// Interface redacts recognised sensitive values within nested structures.
// Byte slices are never logged verbatim.
func Interface(value any) any {
	switch v := value.(type) {
	case string:
		return String(v)
	case []byte:
		return redactedData
	case fmt.Stringer:
		return String(v.String())
	case []string:
		return Slice(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Interface(elem)
		}
		return out
	case map[string]string:
		return MapString(v)
	case map[string]any:
		return Map(v)
	default:
		return value
	}
}

// Map redacts sensitive values within a map of arbitrary values. Keys listed
// under never_persist are masked in addition to the built-in sensitive keys.
func Map(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}

	mask := map[string]struct{}{}
	if raw, ok := lookupFold(in, neverPersistKey); ok {
		for _, k := range collectNeverPersist(raw) {
			mask[strings.ToLower(k)] = struct{}{}
		}
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		if strings.EqualFold(k, neverPersistKey) {
			continue
		}
		if isSensitive(k, mask) {
			out[k] = redactedSecret
			continue
		}
		out[k] = Interface(v)
	}
	return out
}

// MapString redacts sensitive values within a string map.
func MapString(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}

	mask := map[string]struct{}{}
	for k, v := range in {
		if strings.EqualFold(k, neverPersistKey) {
			for _, key := range collectNeverPersist(v) {
				mask[strings.ToLower(key)] = struct{}{}
			}
		}
	}

	out := make(map[string]string, len(in))
	for k, v := range in {
		if strings.EqualFold(k, neverPersistKey) {
			continue
		}
		if isSensitive(k, mask) {
			out[k] = redactedSecret
			continue
		}
		out[k] = String(v)
	}
	return out
}

// Slice redacts sensitive values within a slice of strings.
func Slice(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = String(v)
	}
	return out
}

func isSensitive(key string, mask map[string]struct{}) bool {
	lower := strings.ToLower(key)
	if _, ok := sensitiveKeys[lower]; ok {
		return true
	}
	_, ok := mask[lower]
	return ok
}

func lookupFold(in map[string]any, key string) (any, bool) {
	for k, v := range in {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func collectNeverPersist(value any) []string {
	switch v := value.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			out = append(out, fmt.Sprint(elem))
		}
		return out
	default:
		return nil
	}
}
