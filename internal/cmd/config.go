package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/qsutils/internal/config"
	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
	"github.com/salmonumbrella/qsutils/internal/output"
	"github.com/salmonumbrella/qsutils/internal/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage qsu preferences",
		Long:    `Manage the preferences file at ~/.config/qsutils/config.yaml`,
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigQueuesCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current preferences",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := ConfigFromContext(ctx)
			if output.Structured(ctx) {
				return printerForContext(ctx).Print(ctx, cfg)
			}

			out := stdoutFromContext(ctx)
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to format config: %w", err)
			}
			if string(data) == "{}\n" {
				path, _ := config.DefaultConfigPath()
				_, _ = fmt.Fprintf(out, "No preferences set in %s\n", path)
				_, _ = fmt.Fprintln(out, "\nTo set one, use:")
				_, _ = fmt.Fprintln(out, "  qsu config set output json")
				return nil
			}
			_, err = fmt.Fprint(out, string(data))
			return err
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference",
		Long: `Set a preference in ~/.config/qsutils/config.yaml

Supported keys:
  output           - Default output format (text, json, ndjson/jsonl, table, yaml)
  color            - Default color mode (auto, always, never)
  user             - User reported by jobs, list and remaining
  qstat_bin        - qstat binary (default: qstat on PATH)
  qalter_bin       - qalter binary (default: qalter on PATH)
  queues_file      - Queue alias file
  command_timeout  - Timeout per qstat/qalter call, e.g. 30s`,
		Example: `  qsu config set output json
  qsu config set queues_file ~/lab/queues.cfg
  qsu config set command_timeout 1m`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, value := args[0], args[1]

			switch key {
			case "output":
				format, err := output.ParseFormat(value)
				if err != nil {
					return clierrors.WrapUserError(err, "invalid output format", "Use one of: text, json, ndjson, jsonl, table, yaml")
				}
				value = string(format)
			case "color":
				if err := validateColor(value); err != nil {
					return err
				}
				value = strings.ToLower(strings.TrimSpace(value))
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Set(key, value); err != nil {
				return &clierrors.ValidationError{Field: key, Message: err.Error()}
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			path, _ := config.DefaultConfigPath()
			_, err = fmt.Fprintf(stdoutFromContext(ctx), "Set %s = %s in %s\n", key, value, path)
			return err
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show preferences file path",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := stdoutFromContext(cmd.Context())
			path, err := config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}

			_, _ = fmt.Fprintln(out, path)
			if _, err := os.Stat(path); err == nil {
				_, _ = fmt.Fprintln(out, "(file exists)")
			} else if os.IsNotExist(err) {
				_, _ = fmt.Fprintln(out, "(file does not exist)")
			}
			return nil
		},
	}
}

type queueAlias struct {
	Alias  string `json:"alias" yaml:"alias"`
	Queues string `json:"queues" yaml:"queues"`
}

func newConfigQueuesCmd() *cobra.Command {
	var queuesFile string

	cmd := &cobra.Command{
		Use:   "queues",
		Short: "List the aliases defined in queues.cfg",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			qc, err := config.FindQueues(config.QueuesSearchPath(queuesFile, ConfigFromContext(ctx)))
			if err != nil {
				return err
			}

			aliases := make([]queueAlias, 0, len(qc.Aliases()))
			for _, name := range qc.Aliases() {
				queues, err := qc.Resolve(name)
				if err != nil {
					return err
				}
				aliases = append(aliases, queueAlias{Alias: name, Queues: queues})
			}

			ui.FromContext(ctx).Heading("Aliases in %s", qc.Path)
			return printerForContext(ctx).Print(ctx, aliases)
		},
	}

	cmd.Flags().StringVar(&queuesFile, "queues-file", "", "Queue alias file to use")
	return cmd
}
