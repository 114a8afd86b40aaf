// Package cmd provides the CLI commands for Punctual.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/punctual/internal/output"
	"github.com/manav03panchal/punctual/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "punctual",
	Short: "Meeting alerts that actually fire on time",
	Long: `Punctual watches your calendar feeds and alerts you before meetings,
in the terminal or via webhooks.

Examples:
  punctual source add work https://calendar.example.com/work.ics
  punctual agenda
  punctual watch
  punctual remind standup tomorrow at 9am
  punctual daemon start`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands (but allow __complete for dynamic completions)
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		// Daemon lifecycle commands open the database themselves; the
		// managing process must not hold the badger lock while the
		// daemon child acquires it.
		if isDaemonLifecycle(cmd) {
			return nil
		}

		var err error
		ctx, err = runtime.New(optionsFromFlags())
		if err != nil {
			return err
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show the agenda
		return runAgenda(cmd, args)
	},
}

// optionsFromFlags translates the global flags into runtime options.
func optionsFromFlags() runtime.Options {
	opts := runtime.DefaultOptions()

	switch flagFormat {
	case "json":
		opts.Format = output.FormatJSON
	case "plain":
		opts.Format = output.FormatPlain
	default:
		opts.Format = output.FormatCLI
	}

	switch flagColor {
	case "always":
		opts.ColorMode = output.ColorAlways
	case "never":
		opts.ColorMode = output.ColorNever
	default:
		opts.ColorMode = output.ColorAuto
	}

	opts.Debug = flagDebug
	return opts
}

// isDaemonLifecycle reports whether cmd is the daemon command or one of
// its subcommands.
func isDaemonLifecycle(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "daemon" {
			return true
		}
	}
	return false
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		Die(err)
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("punctual %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	if ctx != nil && ctx.IsJSON() {
		resp := output.NewErrorResponse(err)
		resp.Message = runtime.GetSuggestion(err)
		ctx.Formatter.JSON(resp)
	} else {
		os.Stderr.WriteString("Error: " + runtime.FormatError(err) + "\n")
	}
	os.Exit(1)
}
