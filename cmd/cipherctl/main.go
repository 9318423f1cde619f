package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/RowanDark/cipherkit/internal/logging"
)

const productName = "cipherkit"
const cliBanner = productName + " CLI (cipherctl)"

var (
	showVersion = flag.Bool("version", false, "Print cipherctl version and exit")
	logLevel    = flag.String("log-level", "", "diagnostic log level (debug, info, warn, error)")
)

func init() {
	defaultUsage := flag.Usage
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, cliBanner)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Commands: keygen, encrypt, decrypt, hash, inspect, ciphers, recipe, config, version")
		fmt.Fprintln(out)
		if defaultUsage != nil {
			defaultUsage()
		}
	}
}

func main() {
	flag.Parse()
	if maybePrintVersion() {
		return
	}

	applyLogLevel("")

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(run(args))
}

func run(args []string) int {
	switch args[0] {
	case "keygen":
		return runKeygen(args[1:])
	case "encrypt":
		return runEncrypt(args[1:])
	case "decrypt":
		return runDecrypt(args[1:])
	case "hash":
		return runHash(args[1:])
	case "inspect":
		return runInspect(args[1:])
	case "ciphers":
		return runCiphers(args[1:])
	case "recipe":
		return runRecipe(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version":
		return runVersion(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		return 2
	}
}

// applyLogLevel installs the console logger at the configured level. The
// --log-level flag takes precedence over configuration.
func applyLogLevel(configured string) {
	name := configured
	if *logLevel != "" {
		name = *logLevel
	}
	slog.SetDefault(logging.NewConsoleLogger(os.Stderr, logging.ParseLevel(name)))
}

func maybePrintVersion() bool {
	if !*showVersion {
		return false
	}
	fmt.Println(versionString())
	return true
}
