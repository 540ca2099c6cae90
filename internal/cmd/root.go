package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/qsutils/internal/config"
	"github.com/salmonumbrella/qsutils/internal/errors"
	"github.com/salmonumbrella/qsutils/internal/logging"
	"github.com/salmonumbrella/qsutils/internal/output"
)

func newRootCmd(app *App) *cobra.Command {
	var flags globalFlagInput

	rootCmd := &cobra.Command{
		Use:   "qsu",
		Short: "Inspect and re-route your Grid Engine jobs",
		Long: `qsu reads 'qstat -u USER' and acts on the result with 'qalter'.

Reports are read-only. The throttle and queues commands run one qalter per
matching job; queue lists come from aliases in queues.cfg.`,
		Example: `  qsu jobs
  qsu jobs -u mmb28 -o json
  qsu throttle 5
  qsu queues serial --dry-run`,
		// Errors are rendered by printCommandError.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return &errors.ConfigError{
					Message:    fmt.Sprintf("failed to load preferences: %v", err),
					Suggestion: "Fix or remove the file shown by 'qsu config path'",
					Err:        err,
				}
			}

			opts, err := parseGlobalOptions(cmd, cfg, app.Stdout, flags)
			if err != nil {
				return err
			}
			if err := validateGlobalOptions(opts); err != nil {
				return err
			}

			logging.Setup(logging.Options{
				Debug:  opts.debug,
				JSON:   opts.format == output.FormatJSON || opts.format == output.FormatNDJSON,
				Writer: app.Stderr,
			})

			ctx, err := buildRootContext(cmd.Context(), app, cfg, opts)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			cmd.Root().SetContext(ctx)
			return nil
		},
	}

	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("qsu %s (commit: %s, built: %s)\n", app.Version, app.Commit, app.BuildTime))
	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.WrapUserError(err, "invalid flags", fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.output, "output", "o", "text", "Output format: text|json|ndjson|jsonl|table|yaml")
	pf.BoolVarP(&flags.json, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.query, "query", "q", "", "JQ expression to filter structured output")
	pf.StringVar(&flags.fields, "fields", "", "Project fields (comma-separated paths, use key=path to rename)")
	pf.StringVar(&flags.jsonPath, "jsonpath", "", "Extract a value using JSONPath (e.g. $[0].state)")
	pf.BoolVar(&flags.debug, "debug", false, "Log every qstat/qalter invocation to stderr")
	pf.BoolVar(&flags.quiet, "quiet", false, "Suppress progress output")
	pf.StringVar(&flags.errorFormat, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	pf.StringVar(&flags.color, "color", "", "Color mode (auto|always|never)")

	flagAlias(pf, "query", "jq")
	flagAlias(pf, "output", "format")

	rootCmd.AddCommand(newJobsCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRemainingCmd())
	rootCmd.AddCommand(newThrottleCmd())
	rootCmd.AddCommand(newQueuesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd(app))

	return rootCmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
