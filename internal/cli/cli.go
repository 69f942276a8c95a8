// Package cli implements the placer command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/placer/pkg/buildinfo"
	"github.com/matzehuels/placer/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "placer"

	// UsageLine is printed when the credentials are missing.
	UsageLine = "Usage: " + appName + " <username> <password>"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // command output and countdown line
	Err    io.Writer // spinner

	// sleep replaces the placement waits in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var opts runOptions

	root := &cobra.Command{
		Use:   appName + " [flags] <username> <password>",
		Short: "Placer paints an image onto the shared pixel canvas",
		Long: `Placer logs in to the canvas service and keeps an image painted at a fixed
position, one pixel per cooldown, repairing pixels that others overwrite.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          credentialArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd, args[0], args[1], opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	opts.register(root)

	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// credentialArgs requires exactly a username and a password.
func credentialArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.New(errors.ErrCodeUsage, "expected <username> <password>, got %d arguments", len(args))
	}
	return nil
}
