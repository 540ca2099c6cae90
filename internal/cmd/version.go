package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/qsutils/internal/output"
)

type versionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Built   string `json:"built" yaml:"built"`
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			info := versionInfo{Version: app.Version, Commit: app.Commit, Built: app.BuildTime}
			if output.Structured(ctx) {
				return printerForContext(ctx).Print(ctx, info)
			}
			_, err := fmt.Fprintf(stdoutFromContext(ctx), "qsu %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.Built)
			return err
		},
	}
}
