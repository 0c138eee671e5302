// Copyright 2024 The Vesper Authors. All rights reserved.

package panicx

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var stderrRed = color.New(color.FgRed)

// defaultHandler prints a single red diagnostic line to stderr.
func defaultHandler(file string, line int, kind Kind, message string) {
	stderrRed.Fprintf(os.Stderr, "panic: %s:%d: [%s] %s\n", file, line, kind, message)
}

// sprint is exposed for tests that want the exact formatting without
// writing to stderr.
func sprint(file string, line int, kind Kind, message string) string {
	return fmt.Sprintf("panic: %s:%d: [%s] %s", file, line, kind, message)
}
