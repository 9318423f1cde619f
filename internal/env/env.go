// Package env reads CIPHERKIT_ variables, falling back to their legacy
// CIPHERCTL_ names.
package env

import (
	"log/slog"
	"os"
	"sync"
)

var (
	warnLogger = func(oldKey, newKey string) {
		slog.Warn("deprecated environment variable", "variable", oldKey, "replacement", newKey)
	}
	warnMu     sync.Mutex
	warnedKeys sync.Map
)

// Lookup returns the value of newKey if it exists. When only the legacy
// oldKey is present its value is returned and a deprecation warning is
// logged once per key.
func Lookup(newKey, oldKey string) (string, bool) {
	if v, ok := os.LookupEnv(newKey); ok {
		return v, true
	}
	if oldKey == "" {
		return "", false
	}
	if v, ok := os.LookupEnv(oldKey); ok {
		logDeprecated(oldKey, newKey)
		return v, true
	}
	return "", false
}

func logDeprecated(oldKey, newKey string) {
	warnMu.Lock()
	onceIface, _ := warnedKeys.LoadOrStore(oldKey, &sync.Once{})
	logger := warnLogger
	warnMu.Unlock()
	onceIface.(*sync.Once).Do(func() {
		logger(oldKey, newKey)
	})
}

// ResetWarningsForTesting clears the once guards so tests can verify warning
// behaviour deterministically.
func ResetWarningsForTesting() {
	warnMu.Lock()
	warnedKeys = sync.Map{}
	warnMu.Unlock()
}

// SetWarnLoggerForTesting swaps the warning sink. The returned function
// restores the previous sink and should be deferred in tests.
func SetWarnLoggerForTesting(fn func(oldKey, newKey string)) (restore func()) {
	warnMu.Lock()
	previous := warnLogger
	warnLogger = fn
	warnMu.Unlock()
	return func() {
		warnMu.Lock()
		warnLogger = previous
		warnMu.Unlock()
	}
}
