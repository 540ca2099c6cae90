package cmd

import (
	"context"
	"io"

	"github.com/salmonumbrella/qsutils/internal/config"
	"github.com/salmonumbrella/qsutils/internal/sge"
)

type (
	stdoutKey      struct{}
	stderrKey      struct{}
	errorFormatKey struct{}
	configKey      struct{}
	clientKey      struct{}
	userLookupKey  struct{}
)

// WithIO injects stdout and stderr writers into the context.
func WithIO(ctx context.Context, stdout, stderr io.Writer) context.Context {
	ctx = context.WithValue(ctx, stdoutKey{}, stdout)
	return context.WithValue(ctx, stderrKey{}, stderr)
}

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

// WithConfig stores loaded preferences in context for downstream helpers.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext retrieves preferences from context, or an empty Config.
func ConfigFromContext(ctx context.Context) *config.Config {
	if v, ok := ctx.Value(configKey{}).(*config.Config); ok && v != nil {
		return v
	}
	return &config.Config{}
}

// WithClient stores the Grid Engine client in context.
func WithClient(ctx context.Context, c *sge.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// WithUserLookup stores the function that names the invoking user.
func WithUserLookup(ctx context.Context, fn func() (string, error)) context.Context {
	return context.WithValue(ctx, userLookupKey{}, fn)
}
