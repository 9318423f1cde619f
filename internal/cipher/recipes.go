package cipher

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/RowanDark/cipherkit/internal/logging"
)

// LinkConfig names a registered cipher and how many times it is applied.
type LinkConfig struct {
	Cipher     string `json:"cipher"`
	Iterations int    `json:"iterations"`
}

// Recipe is a named, reusable chain definition
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags,omitempty"`
	Links       []LinkConfig `json:"links"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// Validate checks the recipe against the cipher registry.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return newError("validate recipe", ErrInvalidArgument, "recipe name cannot be empty")
	}
	if len(r.Links) == 0 {
		return newError("validate recipe", ErrEmptyChain, "recipe %s has no links", r.Name)
	}
	for i, link := range r.Links {
		if _, ok := LookupCipher(link.Cipher); !ok {
			return newError("validate recipe", ErrNotFound, "link %d: unknown cipher %q", i, link.Cipher)
		}
		if link.Iterations < 1 {
			return newError("validate recipe", ErrInvalidArgument, "link %d: iterations should be a positive integer", i)
		}
	}
	return nil
}

// Build instantiates the chain described by the recipe. Each link gets its
// own cipher instance built with opts.
func (r *Recipe) Build(opts ...Option) (*ChainCipher, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	chain := NewChainCipher()
	for _, link := range r.Links {
		c, err := NewCipher(link.Cipher, opts...)
		if err != nil {
			return nil, err
		}
		if err := chain.Add(c, link.Iterations); err != nil {
			return nil, err
		}
	}
	return chain, nil
}

// RecipeManager handles storage and retrieval of recipes
type RecipeManager struct {
	recipes   map[string]*Recipe
	storePath string
	audit     *logging.AuditLogger
	mu        sync.RWMutex
}

// NewRecipeManager creates a new recipe manager. An empty storePath keeps
// recipes in memory only.
func NewRecipeManager(storePath string, audit *logging.AuditLogger) *RecipeManager {
	return &RecipeManager{
		recipes:   make(map[string]*Recipe),
		storePath: storePath,
		audit:     audit,
	}
}

// SaveRecipe validates and stores a recipe
func (rm *RecipeManager) SaveRecipe(recipe *Recipe) error {
	if recipe == nil {
		return newError("save recipe", ErrInvalidArgument, "recipe cannot be nil")
	}
	if err := recipe.Validate(); err != nil {
		return err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.storePath != "" {
		file := sanitizeFilename(recipe.Name)
		for name := range rm.recipes {
			if name != recipe.Name && sanitizeFilename(name) == file {
				return newError("save recipe", ErrInvalidArgument,
					"recipe %q would overwrite %q in %s.json", recipe.Name, name, file)
			}
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if recipe.ID == "" {
		recipe.ID = ulid.Make().String()
	}
	if recipe.CreatedAt == "" {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	if rm.storePath != "" {
		if err := rm.persistRecipe(recipe); err != nil {
			return err
		}
	}
	rm.recipes[recipe.Name] = recipe

	rm.emit(logging.EventRecipeSaved, recipe)
	return nil
}

// GetRecipe retrieves a recipe by name
func (rm *RecipeManager) GetRecipe(name string) (*Recipe, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	recipe, exists := rm.recipes[name]
	return recipe, exists
}

// ListRecipes returns all recipes sorted by name
func (rm *RecipeManager) ListRecipes() []*Recipe {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	recipes := make([]*Recipe, 0, len(rm.recipes))
	for _, recipe := range rm.recipes {
		recipes = append(recipes, recipe)
	}

	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].Name < recipes[j].Name
	})
	return recipes
}

// DeleteRecipe removes a recipe
func (rm *RecipeManager) DeleteRecipe(name string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	recipe, exists := rm.recipes[name]
	if !exists {
		return newError("delete recipe", ErrNotFound, "recipe %q not found", name)
	}
	delete(rm.recipes, name)

	if rm.storePath != "" {
		recipePath := filepath.Join(rm.storePath, sanitizeFilename(name)+".json")
		if err := os.Remove(recipePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete recipe file: %w", err)
		}
	}

	rm.emit(logging.EventRecipeDeleted, recipe)
	return nil
}

// LoadRecipes loads all recipes from the store path
func (rm *RecipeManager) LoadRecipes() error {
	if rm.storePath == "" {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	entries, err := os.ReadDir(rm.storePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read recipes directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(rm.storePath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read recipe %s: %w", entry.Name(), err)
		}

		var recipe Recipe
		if err := json.Unmarshal(data, &recipe); err != nil {
			return fmt.Errorf("failed to parse recipe %s: %w", entry.Name(), err)
		}
		if err := recipe.Validate(); err != nil {
			return fmt.Errorf("recipe %s: %w", entry.Name(), err)
		}

		rm.recipes[recipe.Name] = &recipe
	}

	return nil
}

// SearchRecipes finds recipes whose name, description or tags contain query,
// ignoring case
func (rm *RecipeManager) SearchRecipes(query string) []*Recipe {
	query = strings.ToLower(query)
	results := make([]*Recipe, 0)

	for _, recipe := range rm.ListRecipes() {
		if strings.Contains(strings.ToLower(recipe.Name), query) ||
			strings.Contains(strings.ToLower(recipe.Description), query) {
			results = append(results, recipe)
			continue
		}

		for _, tag := range recipe.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				results = append(results, recipe)
				break
			}
		}
	}

	return results
}

// persistRecipe writes a single recipe to disk
func (rm *RecipeManager) persistRecipe(recipe *Recipe) error {
	if err := os.MkdirAll(rm.storePath, 0o755); err != nil {
		return fmt.Errorf("failed to create recipes directory: %w", err)
	}

	data, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize recipe: %w", err)
	}

	recipePath := filepath.Join(rm.storePath, sanitizeFilename(recipe.Name)+".json")
	if err := os.WriteFile(recipePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}

	return nil
}

func (rm *RecipeManager) emit(event logging.EventType, recipe *Recipe) {
	if rm.audit == nil {
		return
	}
	_ = rm.audit.Emit(logging.AuditEvent{
		EventType: event,
		Decision:  logging.DecisionInfo,
		Metadata: map[string]any{
			"recipe_id": recipe.ID,
			"recipe":    recipe.Name,
			"links":     len(recipe.Links),
		},
	})
}

// sanitizeFilename converts a recipe name to a safe filename
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}
