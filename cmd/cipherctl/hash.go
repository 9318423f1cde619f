package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/cipherkit/internal/hash"
)

func runHash(args []string) int {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	algorithm := fs.String("algorithm", hash.DefaultAlgorithm, "digest algorithm")
	raw := fs.Bool("raw", false, "write the raw digest instead of hex")
	in := fs.String("in", "", "input file (defaults to stdin)")
	list := fs.Bool("list", false, "list supported algorithms")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "hash takes no positional arguments")
		return 2
	}

	if *list {
		for _, name := range hash.Algorithms() {
			fmt.Println(name)
		}
		return 0
	}

	h, err := hash.NewGenericHash(*algorithm, *raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	data, err := readInput(*in)
	if err != nil {
		return reportError("read input", err)
	}
	if err := writeOutput("", h.Hash(data), !*raw); err != nil {
		return reportError("write output", err)
	}
	return 0
}
