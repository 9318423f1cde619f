package main

import (
	"flag"
	"fmt"
	"os"
)

type cryptFlags struct {
	cipher string
	recipe string
	key    string
	in     string
	out    string
}

func parseCryptFlags(name string, args []string) (*cryptFlags, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	f := &cryptFlags{}
	fs.StringVar(&f.cipher, "cipher", "", "registered cipher name (defaults to the configured cipher)")
	fs.StringVar(&f.recipe, "recipe", "", "saved recipe to build a chain from")
	fs.StringVar(&f.key, "key", "", "key material (defaults to $CIPHERKIT_KEY)")
	fs.StringVar(&f.in, "in", "", "input file (defaults to stdin)")
	fs.StringVar(&f.out, "out", "", "output file (defaults to stdout)")
	if err := fs.Parse(args); err != nil {
		return nil, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "%s takes no positional arguments\n", name)
		return nil, false
	}
	if f.cipher != "" && f.recipe != "" {
		fmt.Fprintln(os.Stderr, "--cipher and --recipe are mutually exclusive")
		return nil, false
	}
	return f, true
}

func runEncrypt(args []string) int {
	f, ok := parseCryptFlags("encrypt", args)
	if !ok {
		return 2
	}
	key, err := resolveKey(f.key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	s, err := openSession()
	if err != nil {
		return reportError("encrypt", err)
	}
	defer s.Close()

	c, err := s.resolveCipher(f.cipher, f.recipe)
	if err != nil {
		return reportError("encrypt", err)
	}
	data, err := readInput(f.in)
	if err != nil {
		return reportError("read input", err)
	}
	envelope, err := c.Encrypt(data, key)
	if err != nil {
		return reportError("encrypt", err)
	}
	if err := writeOutput(f.out, []byte(envelope), true); err != nil {
		return reportError("write output", err)
	}
	return 0
}

func runDecrypt(args []string) int {
	f, ok := parseCryptFlags("decrypt", args)
	if !ok {
		return 2
	}
	key, err := resolveKey(f.key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	s, err := openSession()
	if err != nil {
		return reportError("decrypt", err)
	}
	defer s.Close()

	c, err := s.resolveCipher(f.cipher, f.recipe)
	if err != nil {
		return reportError("decrypt", err)
	}
	data, err := readInput(f.in)
	if err != nil {
		return reportError("read input", err)
	}
	plain, err := c.Decrypt(trimEnvelope(data), key)
	if err != nil {
		return reportError("decrypt", err)
	}
	if err := writeOutput(f.out, plain, false); err != nil {
		return reportError("write output", err)
	}
	return 0
}
