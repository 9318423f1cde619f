package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

type multiFlag []string

func (m *multiFlag) String() string {
	if m == nil {
		return ""
	}
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func runRecipe(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "recipe subcommand required")
		return 2
	}

	switch args[0] {
	case "list":
		return runRecipeList(args[1:])
	case "show":
		return runRecipeShow(args[1:])
	case "save":
		return runRecipeSave(args[1:])
	case "delete":
		return runRecipeDelete(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown recipe subcommand: %s\n", args[0])
		return 2
	}
}

func runRecipeList(args []string) int {
	fs := flag.NewFlagSet("recipe list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	query := fs.String("search", "", "only list recipes matching this text")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, err := openSession()
	if err != nil {
		return reportError("recipe list", err)
	}
	defer s.Close()

	rm, err := s.recipes()
	if err != nil {
		return reportError("recipe list", err)
	}
	recipes := rm.ListRecipes()
	if *query != "" {
		recipes = rm.SearchRecipes(*query)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLINKS\tDESCRIPTION")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, formatLinks(r.Links), r.Description)
	}
	_ = tw.Flush()
	return 0
}

func runRecipeShow(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: cipherctl recipe show NAME")
		return 2
	}

	s, err := openSession()
	if err != nil {
		return reportError("recipe show", err)
	}
	defer s.Close()

	rm, err := s.recipes()
	if err != nil {
		return reportError("recipe show", err)
	}
	r, ok := rm.GetRecipe(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "recipe %q not found\n", args[0])
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return reportError("recipe show", err)
	}
	return 0
}

func runRecipeSave(args []string) int {
	fs := flag.NewFlagSet("recipe save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "recipe name")
	description := fs.String("description", "", "free-form description")
	var links, tags multiFlag
	fs.Var(&links, "link", "chain link as cipher:iterations (repeatable, applied in order)")
	fs.Var(&tags, "tag", "tag (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*name) == "" || len(links) == 0 {
		fmt.Fprintln(os.Stderr, "usage: cipherctl recipe save --name NAME --link cipher:iterations [--link ...]")
		return 2
	}

	recipe := &cipher.Recipe{Name: *name, Description: *description, Tags: tags}
	for _, raw := range links {
		link, err := parseLink(raw)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		recipe.Links = append(recipe.Links, link)
	}

	s, err := openSession()
	if err != nil {
		return reportError("recipe save", err)
	}
	defer s.Close()

	rm, err := s.recipes()
	if err != nil {
		return reportError("recipe save", err)
	}
	if existing, ok := rm.GetRecipe(recipe.Name); ok {
		recipe.ID = existing.ID
		recipe.CreatedAt = existing.CreatedAt
	}
	if err := rm.SaveRecipe(recipe); err != nil {
		return reportError("recipe save", err)
	}
	fmt.Printf("saved recipe %s (%s)\n", recipe.Name, recipe.ID)
	return 0
}

func runRecipeDelete(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: cipherctl recipe delete NAME")
		return 2
	}

	s, err := openSession()
	if err != nil {
		return reportError("recipe delete", err)
	}
	defer s.Close()

	rm, err := s.recipes()
	if err != nil {
		return reportError("recipe delete", err)
	}
	if err := rm.DeleteRecipe(args[0]); err != nil {
		return reportError("recipe delete", err)
	}
	fmt.Printf("deleted recipe %s\n", args[0])
	return 0
}

// parseLink parses "cipher:iterations"; a bare cipher name means one iteration.
func parseLink(raw string) (cipher.LinkConfig, error) {
	name, count, found := strings.Cut(raw, ":")
	link := cipher.LinkConfig{Cipher: strings.TrimSpace(name), Iterations: 1}
	if link.Cipher == "" {
		return cipher.LinkConfig{}, fmt.Errorf("invalid link %q: missing cipher name", raw)
	}
	if found {
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 1 {
			return cipher.LinkConfig{}, fmt.Errorf("invalid link %q: iterations should be a positive integer", raw)
		}
		link.Iterations = n
	}
	return link, nil
}

func formatLinks(links []cipher.LinkConfig) string {
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = fmt.Sprintf("%s:%d", l.Cipher, l.Iterations)
	}
	return strings.Join(parts, " -> ")
}
