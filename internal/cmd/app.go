package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/qsutils/internal/sge"
)

// App owns CLI wiring and execution configuration.
type App struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Version   string
	Commit    string
	BuildTime string

	// Runner executes qstat and qalter. Nil means sge.ExecRunner.
	Runner sge.Runner
	// CurrentUser returns the invoking user's login name. Nil means os/user.
	CurrentUser func() (string, error)
}

// NewApp constructs an App with default settings.
func NewApp() *App {
	return &App{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Version:   "dev",
		Commit:    "unknown",
		BuildTime: "unknown",
	}
}

// Execute runs the CLI with the provided args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)

	ctx = WithIO(ctx, a.Stdout, a.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		errCtx := root.Context()
		if errCtx == nil {
			errCtx = ctx
		}
		printCommandError(errCtx, err)
		return err
	}
	return nil
}

// RootCommand exposes the root Cobra command for embedding/tests.
func (a *App) RootCommand() *cobra.Command {
	return newRootCmd(a)
}
