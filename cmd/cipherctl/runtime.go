package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/RowanDark/cipherkit/internal/cipher"
	"github.com/RowanDark/cipherkit/internal/config"
	"github.com/RowanDark/cipherkit/internal/env"
	"github.com/RowanDark/cipherkit/internal/logging"
)

// session bundles the resolved configuration with the sinks a command needs.
type session struct {
	cfg   config.Config
	audit *logging.AuditLogger
}

func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyLogLevel(cfg.LogLevel)
	s := &session{cfg: cfg}
	if cfg.AuditLog != "" {
		audit, err := logging.NewAuditLogger("cipherctl", logging.WithoutStdout(), logging.WithFile(cfg.AuditLog))
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		s.audit = audit
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.audit.Close(); err != nil {
		slog.Warn("close audit log", "error", err)
	}
}

// cipherOptions translates configuration into cipher construction options.
func (s *session) cipherOptions() []cipher.Option {
	opts := []cipher.Option{cipher.WithAuditLogger(s.audit)}
	if s.cfg.KDF == config.KDFFallback {
		opts = append(opts, cipher.WithKeyDerivation(cipher.FallbackPBKDF2))
	}
	if s.cfg.Salts.Encryption != "" {
		opts = append(opts, cipher.WithSalts([]byte(s.cfg.Salts.Encryption), []byte(s.cfg.Salts.Authorization)))
	}
	if s.cfg.Simple.RoundTrip {
		opts = append(opts, cipher.WithRoundTripVerification())
	}
	return opts
}

func (s *session) recipes() (*cipher.RecipeManager, error) {
	rm := cipher.NewRecipeManager(s.cfg.RecipesDir, s.audit.WithComponent("recipes"))
	if err := rm.LoadRecipes(); err != nil {
		return nil, err
	}
	return rm, nil
}

// resolveCipher builds either a registered cipher or a recipe chain. An empty
// name falls back to the configured default cipher.
func (s *session) resolveCipher(name, recipe string) (cipher.Cipher, error) {
	if recipe != "" {
		rm, err := s.recipes()
		if err != nil {
			return nil, err
		}
		r, ok := rm.GetRecipe(recipe)
		if !ok {
			return nil, fmt.Errorf("recipe %q: %w", recipe, cipher.ErrNotFound)
		}
		slog.Debug("using recipe", "recipe", r.Name, "links", len(r.Links))
		chain, err := r.Build(s.cipherOptions()...)
		if err != nil {
			return nil, err
		}
		return chain, nil
	}

	if name == "" {
		name = s.cfg.Cipher
	}
	if d, ok := cipher.LookupCipher(name); ok && !d.Secure {
		slog.Warn("cipher is not suitable for sensitive data", "cipher", name)
	}
	return cipher.NewCipher(name, s.cipherOptions()...)
}

func resolveKey(flagValue string) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}
	if v, ok := env.Lookup("CIPHERKIT_KEY", "CIPHERCTL_KEY"); ok && v != "" {
		return []byte(v), nil
	}
	return nil, errors.New("a key is required (--key or CIPHERKIT_KEY)")
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes data to path, or to stdout followed by a newline when
// newline is set.
func writeOutput(path string, data []byte, newline bool) error {
	if path == "" || path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
		if newline {
			_, err := fmt.Fprintln(os.Stdout)
			return err
		}
		return nil
	}
	return os.WriteFile(path, data, 0o600)
}

// reportError prints err and returns the process exit code for it.
func reportError(action string, err error) int {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	if errors.Is(err, cipher.ErrInvalidKey) || errors.Is(err, cipher.ErrInvalidArgument) {
		return 2
	}
	return 1
}

func trimEnvelope(data []byte) string {
	return strings.TrimSpace(string(data))
}
