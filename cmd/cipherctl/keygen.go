package main

import (
	"flag"
	"fmt"
	"os"
)

func runKeygen(args []string) int {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("cipher", "", "registered cipher name (defaults to the configured cipher)")
	recipe := fs.String("recipe", "", "saved recipe; the key comes from its first link")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "keygen takes no positional arguments")
		return 2
	}

	s, err := openSession()
	if err != nil {
		return reportError("keygen", err)
	}
	defer s.Close()

	c, err := s.resolveCipher(*name, *recipe)
	if err != nil {
		return reportError("keygen", err)
	}
	key, err := c.GenerateKey()
	if err != nil {
		return reportError("keygen", err)
	}
	fmt.Println(string(key))
	return 0
}
