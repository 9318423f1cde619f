package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

func runCiphers(args []string) int {
	fs := flag.NewFlagSet("ciphers", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSECURE\tDESCRIPTION")
	for _, d := range cipher.ListCiphers() {
		fmt.Fprintf(tw, "%s\t%t\t%s\n", d.Name, d.Secure, d.Description)
	}
	if err := tw.Flush(); err != nil {
		return reportError("ciphers", err)
	}
	return 0
}
