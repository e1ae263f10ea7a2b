package app

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

const spinnerCharSet = 14

// startProgress shows a spinner with msg on w while work runs and returns the function
// that removes it. Nothing is shown unless enabled is set and w is a terminal.
func startProgress(w io.Writer, enabled bool, msg string) func() {
	if !enabled || !isTerminal(w) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[spinnerCharSet], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
