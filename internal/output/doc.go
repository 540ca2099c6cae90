// Package output renders command results for the qsu CLI.
//
// It supports output formats:
//   - text: Human-readable lines and aligned tables (default)
//   - json: Pretty-printed JSON
//   - ndjson: Newline-delimited JSON, one object per row
//   - table: Aligned columns for lists
//   - yaml: YAML format for structured data
//
// The format is set once in the root command's PersistentPreRunE and read
// back by each command:
//
//	ctx := output.WithFormat(cmd.Context(), format)
//	cmd.SetContext(ctx)
//
//	printer := output.NewPrinter(stdout, output.FormatFromContext(ctx))
//	return printer.Print(ctx, data)
//
// A Table keeps the column order of parsed qstat output in text and table
// mode and becomes a list of row objects in the structured formats. The
// --query (jq), --fields and --jsonpath options operate on that structured
// form.
package output
