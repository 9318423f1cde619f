package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

func runInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "emit detections as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cipherctl inspect [--json] ENVELOPE")
		return 2
	}

	detections := cipher.Inspect(strings.TrimSpace(fs.Arg(0)))
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(detections); err != nil {
			return reportError("encode", err)
		}
	} else if len(detections) > 0 {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CIPHER\tCONFIDENCE\tREASONING")
		for _, d := range detections {
			fmt.Fprintf(tw, "%s\t%.2f\t%s\n", d.Cipher, d.Confidence, d.Reasoning)
		}
		_ = tw.Flush()
	}

	if len(detections) == 0 {
		fmt.Fprintln(os.Stderr, "no cipher matches this envelope")
		return 1
	}
	return 0
}
