package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/user"
	"strings"

	"github.com/salmonumbrella/qsutils/internal/output"
	"github.com/salmonumbrella/qsutils/internal/sge"
)

func stdoutFromContext(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stdout
}

func stderrFromContext(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stderrKey{}).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stderr
}

func printerForContext(ctx context.Context) *output.Printer {
	return output.NewPrinter(stdoutFromContext(ctx), output.FormatFromContext(ctx))
}

func clientFromContext(ctx context.Context) (*sge.Client, error) {
	if c, ok := ctx.Value(clientKey{}).(*sge.Client); ok && c != nil {
		return c, nil
	}
	return nil, errors.New("grid engine client not initialized")
}

// invokingUser names the user running qsu.
func invokingUser(ctx context.Context) (string, error) {
	if fn, ok := ctx.Value(userLookupKey{}).(func() (string, error)); ok && fn != nil {
		return fn()
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// reportUser picks the user for read-only reports: --user, then the user
// preference, then the invoking user.
func reportUser(ctx context.Context, flagUser string) (string, error) {
	if name := strings.TrimSpace(flagUser); name != "" {
		return name, nil
	}
	if name := strings.TrimSpace(ConfigFromContext(ctx).User); name != "" {
		return name, nil
	}
	return invokingUser(ctx)
}
