// Package ui provides the terminal prompts and the plan viewer.
package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return IsTTY(os.Stdout) && IsTTY(os.Stdin)
}
