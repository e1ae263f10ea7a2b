package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/andyballingall/stacv/internal/fs"
)

// Run executes the command line in args, whose first element is the program name.
// A nil envp reads the process environment. The log file opened for the command is
// closed before Run returns.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, envp fs.EnvProvider) error {
	if envp == nil {
		envp = fs.NewEnvProvider()
	}

	// Each run gets its own manager so that parallel tests do not share state.
	lazy := &LazyManager{}
	defer func() {
		if err := lazy.Close(); err != nil {
			fmt.Fprintf(stderr, "Warning: closing log file: %v\n", err)
		}
	}()

	cmd := NewRootCmd(lazy, new(slog.LevelVar), stdout, stderr, envp)
	cmd.SetArgs(args[1:])
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		// The root command is silent about errors; they are reported here.
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}
