package config

import (
	"fmt"
	"os"
)

// Exitf prints a formatted line to stderr and exits with status 1. Commands
// that own the terminal use it instead of log.Fatalf so no log prefix or
// timestamp is added.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
