package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httputil/config"
	"github.com/wesleyorama2/httputil/http"
	"github.com/wesleyorama2/httputil/internal/output"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree. Each call returns independent
// commands and flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "httputil",
		Short:   "Send HTTP requests and work with dates from the terminal",
		Version: version,
		Long: `httputil drives the httputil request builder and date helper from the
command line. Use it to exercise endpoints with custom headers, bodies,
timeouts and protocol settings, or to convert and shift dates.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output and debug logging")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")
	root.PersistentFlags().StringP("format", "o", "text", "Output format (text, json, yaml)")
	root.PersistentFlags().String("config", "", "Client configuration file (YAML or JSON)")

	root.AddCommand(
		newRequestCmd(http.MethodGet, false),
		newRequestCmd(http.MethodPost, true),
		newRequestCmd(http.MethodPut, true),
		newRequestCmd(http.MethodDelete, true),
		newDateCmd(),
	)

	return root
}

// Execute runs the root command.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return RootCmd.Execute()
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose    bool
	noColor    bool
	format     output.OutputFormat
	configPath string
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	formatFlag, _ := cmd.Flags().GetString("format")
	configPath, _ := cmd.Flags().GetString("config")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return globalOptions{}, err
	}

	return globalOptions{
		verbose:    verbose,
		noColor:    colorDisabled(noColor, cmd.OutOrStdout()),
		format:     format,
		configPath: configPath,
	}, nil
}

func (o globalOptions) formatter() output.FormatProvider {
	return output.GetFormatter(o.format, o.verbose, o.noColor)
}

// logger returns a debug-level text logger on stderr when verbose output is
// requested, and nil otherwise so the client keeps its discard logger.
func (o globalOptions) logger(stderr io.Writer) *slog.Logger {
	if !o.verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return &config.Config{}, nil
	}
	return config.LoadConfig(o.configPath)
}

// colorDisabled reports whether output written to w should be plain.
func colorDisabled(flag bool, w io.Writer) bool {
	if flag || os.Getenv("NO_COLOR") != "" {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
