package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
	"github.com/salmonumbrella/qsutils/internal/output"
	"github.com/salmonumbrella/qsutils/internal/qstat"
	"github.com/salmonumbrella/qsutils/internal/sge"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return clierrors.NewUserError(
			fmt.Sprintf("invalid --error-format %q", format),
			"Use one of: auto, text, json, yaml",
		)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	w := stderrFromContext(ctx)

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(w, err)
	if suggestion := clierrors.UserSuggestion(err); suggestion != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", suggestion)
	}
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":   err.Error(),
		"category":  errorCategory(err),
		"exit_code": ExitCode(err),
	}
	if suggestion := clierrors.UserSuggestion(err); suggestion != "" {
		errMap["suggestion"] = suggestion
	}

	var (
		validationErr *clierrors.ValidationError
		configErr     *clierrors.ConfigError
		formatErr     *qstat.FormatError
		columnErr     *qstat.ColumnNotFoundError
		patternErr    *qstat.PatternMismatchError
		exitErr       *sge.ExitError
		dispatchErr   *sge.DispatchError
	)
	switch {
	case errors.As(err, &validationErr):
		errMap["type"] = "validation"
		errMap["field"] = validationErr.Field
	case errors.As(err, &configErr):
		errMap["type"] = "config"
		if configErr.Path != "" {
			errMap["path"] = configErr.Path
		}
	case errors.As(err, &formatErr):
		errMap["type"] = "format"
		if formatErr.Line > 0 {
			errMap["line"] = formatErr.Line
		}
	case errors.As(err, &columnErr):
		errMap["type"] = "column_not_found"
		errMap["column"] = columnErr.Column
	case errors.As(err, &patternErr):
		errMap["type"] = "pattern_mismatch"
		errMap["job_id"] = patternErr.JobID
	case errors.As(err, &exitErr):
		errMap["type"] = "command"
		errMap["command"] = exitErr.Command
		errMap["status"] = exitErr.Code
	case errors.As(err, &dispatchErr):
		errMap["type"] = "dispatch"
		errMap["failed"] = dispatchErr.Failed
		errMap["total"] = dispatchErr.Total
	}

	return map[string]interface{}{"error": errMap}
}

func errorCategory(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case clierrors.IsConfigError(err):
		return "config"
	case clierrors.IsUserError(err), clierrors.IsValidationError(err):
		return "user"
	default:
		return "system"
	}
}
