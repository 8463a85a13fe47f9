package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alevsk/ci-scope/internal/analyzer"
	"github.com/alevsk/ci-scope/internal/config"
	"github.com/alevsk/ci-scope/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

var cfg = config.Default()

// errReported signals a failure whose message the command already printed
var errReported = errors.New("failure already reported")

// usageError is returned when a command is invoked with missing arguments
type usageError struct {
	usage string
}

func (e *usageError) Error() string {
	return e.usage
}

var rootCmd = &cobra.Command{
	Use:   "ci-scope",
	Short: "CI-Scope - A GitLab CI configuration analyzer",
	Long: `CI-Scope inspects GitLab CI pipeline files, maps which files include which,
which jobs extend which templates, and how jobs group into stages.`,
	SilenceErrors: true, // We'll handle error printing ourselves
	SilenceUsage:  true, // We'll handle usage printing ourselves
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		// Load configuration from file or environment variable
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("error loading configuration: %w", err)
		}

		// flags override config due to highest precedence
		if debug {
			cfg.Debug = true
		}

		// Initialize logger
		logger.Init(cfg)

		// Print configuration source
		if configPath != "" || os.Getenv(config.CiScopeConfigPathEnvVar) != "" {
			logger.Debug().Msgf("Using config file: %s", configPath)
		} else {
			logger.Debug().Msg("Using default configuration")
		}

		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: .ci-scope.yml in current directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging and additional debug information")

	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(pipelineCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// newAnalyzer builds an analyzer from the loaded configuration
func newAnalyzer() (*analyzer.Analyzer, error) {
	return analyzer.New(&analyzer.Options{
		Root:    cfg.Root,
		Pattern: cfg.Pattern,
		Matcher: cfg.Matcher,
	})
}

// execute runs the root command with args and returns the process exit code
func execute(args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetErr(stderr)
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	var usage *usageError
	switch {
	case errors.Is(err, errReported):
	case errors.As(err, &usage):
		fmt.Fprintln(stderr, usage.usage)
	default:
		fmt.Fprintln(stderr, cmd.UsageString())
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stderr))
}
