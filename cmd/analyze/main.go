//go:build darwin

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ojisanchamchi/mac-cleaner/internal/ui"
)

// Exit codes let a wrapping menu distinguish "user backed out to us" from
// "user quit outright".
const (
	exitReturned = 0
	exitAborted  = 1
	exitFailure  = 2
)

func main() {
	target := os.Getenv("MO_ANALYZE_PATH")
	if target == "" && len(os.Args) > 1 {
		target = os.Args[1]
	}

	var wholeTree bool
	if target == "" {
		// No target: whole-volume analysis from the root.
		target = "/"
		wholeTree = true
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot resolve %q: %v\n", target, err)
		os.Exit(exitFailure)
	}
	if _, err := os.Stat(abs); err != nil {
		fmt.Fprintf(os.Stderr, "cannot access %s: %v\n", abs, err)
		os.Exit(exitFailure)
	}

	reason, err := ui.Run(ui.Config{Target: abs, WholeTree: wholeTree})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyzer error: %v\n", err)
		os.Exit(exitFailure)
	}
	if reason == ui.ExitAborted {
		os.Exit(exitAborted)
	}
	os.Exit(exitReturned)
}
