package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
)

// flagAlias registers a hidden flag that shares the value of name, so
// --jq sets --query. The alias is hidden from help output.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		return
	}
	fs.AddFlag(&pflag.Flag{
		Name:        alias,
		Usage:       f.Usage,
		Value:       f.Value,
		DefValue:    f.DefValue,
		NoOptDefVal: f.NoOptDefVal,
		Hidden:      true,
	})
}

// exactArgs is cobra.ExactArgs with a usage error that maps to exit code 2.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		return clierrors.NewUserError(
			fmt.Sprintf("%s expects %d argument(s), got %d", cmd.CommandPath(), n, len(args)),
			fmt.Sprintf("Usage: %s", cmd.UseLine()),
		)
	}
}

// noArgs rejects positional arguments with a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return clierrors.NewUserError(
		fmt.Sprintf("unexpected argument %q for %s", args[0], cmd.CommandPath()),
		fmt.Sprintf("Usage: %s", cmd.UseLine()),
	)
}
