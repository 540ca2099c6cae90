package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/qsutils/internal/config"
	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
	"github.com/salmonumbrella/qsutils/internal/output"
	"github.com/salmonumbrella/qsutils/internal/sge"
	"github.com/salmonumbrella/qsutils/internal/ui"
)

// EnvOutput overrides the output preference when --output is not given.
const EnvOutput = "QSU_OUTPUT"

type globalFlagInput struct {
	output      string
	json        bool
	query       string
	fields      string
	jsonPath    string
	debug       bool
	quiet       bool
	errorFormat string
	color       string
}

type globalOptions struct {
	format      output.Format
	query       string
	fieldsRaw   string
	jsonPathRaw string
	debug       bool
	quiet       bool
	errorFormat string
	color       ui.ColorMode
}

func parseGlobalOptions(cmd *cobra.Command, cfg *config.Config, stdout io.Writer, flags globalFlagInput) (globalOptions, error) {
	opts := globalOptions{
		query:       strings.TrimSpace(flags.query),
		fieldsRaw:   strings.TrimSpace(flags.fields),
		jsonPathRaw: strings.TrimSpace(flags.jsonPath),
		debug:       flags.debug,
		quiet:       flags.quiet,
		errorFormat: flags.errorFormat,
	}

	outputFlagSet := commandFlagChanged(cmd, "output") || commandFlagChanged(cmd, "format")
	formatStr := flags.output
	switch {
	case flags.json:
		formatStr = string(output.FormatJSON)
	case outputFlagSet:
	case strings.TrimSpace(os.Getenv(EnvOutput)) != "":
		formatStr = os.Getenv(EnvOutput)
	case cfg.GetOutput() != "":
		formatStr = cfg.GetOutput()
	case !isTerminal(stdout):
		formatStr = string(output.FormatJSON)
	}

	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return globalOptions{}, clierrors.WrapUserError(err, "invalid output format", "Use one of: text, json, ndjson, jsonl, table, yaml")
	}
	opts.format = format

	if !commandFlagChanged(cmd, "quiet") && !isTerminal(stdout) {
		switch opts.format {
		case output.FormatJSON, output.FormatNDJSON, output.FormatYAML:
			opts.quiet = true
		}
	}

	colorStr := flags.color
	if strings.TrimSpace(colorStr) == "" {
		colorStr = cfg.GetColor()
	}
	if err := validateColor(colorStr); err != nil {
		return globalOptions{}, err
	}
	opts.color = ui.ParseColorMode(colorStr)

	return opts, nil
}

func validateGlobalOptions(opts globalOptions) error {
	if opts.fieldsRaw != "" {
		if err := output.ValidateFields(opts.fieldsRaw); err != nil {
			return clierrors.WrapUserError(err, "invalid --fields value", "Example: --fields job-ID,state")
		}
	}
	if opts.query != "" {
		if err := output.ValidateQuery(opts.query); err != nil {
			return clierrors.WrapUserError(err, "invalid --query value", "Quote the whole jq expression")
		}
		if opts.fieldsRaw != "" || opts.jsonPathRaw != "" {
			return errOnlyOne("--query", "--fields or --jsonpath")
		}
	}
	if opts.fieldsRaw != "" && opts.jsonPathRaw != "" {
		return errOnlyOne("--fields", "--jsonpath")
	}
	return validateErrorFormat(opts.errorFormat)
}

func validateColor(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto", "always", "never":
		return nil
	default:
		return clierrors.NewUserError(
			fmt.Sprintf("invalid color mode %q", value),
			"Use one of: auto, always, never",
		)
	}
}

func buildRootContext(ctx context.Context, app *App, cfg *config.Config, opts globalOptions) (context.Context, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, &clierrors.ConfigError{Message: err.Error(), Suggestion: "Use a Go duration such as 30s or 2m", Err: err}
	}
	runner := app.Runner
	if runner == nil {
		runner = sge.ExecRunner{Timeout: timeout}
	}

	ctx = WithIO(ctx, app.Stdout, app.Stderr)
	ctx = WithConfig(ctx, cfg)
	ctx = WithErrorFormat(ctx, opts.errorFormat)
	ctx = WithClient(ctx, sge.NewClient(runner, cfg.Qstat(), cfg.Qalter()))
	if app.CurrentUser != nil {
		ctx = WithUserLookup(ctx, app.CurrentUser)
	}

	ctx = output.WithFormat(ctx, opts.format)
	ctx = output.WithQuery(ctx, opts.query)
	ctx = output.WithFields(ctx, opts.fieldsRaw)
	ctx = output.WithJSONPath(ctx, opts.jsonPathRaw)
	ctx = output.WithQuiet(ctx, opts.quiet)
	ctx = ui.WithUI(ctx, ui.NewWriter(app.Stderr, opts.color).Quiet(opts.quiet))
	return ctx, nil
}

func errOnlyOne(left, right string) error {
	return clierrors.NewUserError(fmt.Sprintf("use only one of %s or %s", left, right), "")
}

func commandFlagChanged(cmd *cobra.Command, name string) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if flag := current.Flags().Lookup(name); flag != nil && flag.Changed {
			return true
		}
		if flag := current.PersistentFlags().Lookup(name); flag != nil && flag.Changed {
			return true
		}
	}
	return false
}
