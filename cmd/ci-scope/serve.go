package main

import (
	"fmt"
	"time"

	"github.com/alevsk/ci-scope/internal/api"
	"github.com/alevsk/ci-scope/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Server flags
	serverHost     string
	serverPort     int
	serverTimeout  string
	serverLogLevel string
	serverRoot     string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CI-Scope API server",
	PreRun: func(cmd *cobra.Command, args []string) {
		// Override config values with flags if provided
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("timeout") {
			if duration, err := time.ParseDuration(serverTimeout); err == nil {
				cfg.Server.Timeout = duration
			} else {
				logger.Warn().Str("timeout", serverTimeout).Msg("ignoring invalid timeout")
			}
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Server.LogLevel = serverLogLevel
		}
		if cmd.Flags().Changed("root") {
			cfg.Root = serverRoot
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAnalyzer()
		if err != nil {
			return err
		}
		if cfg.Server.LogLevel != "" && !cfg.Debug {
			if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
				return err
			}
		}
		logger.Info().Str("root", cfg.Root).Msg("serving analyses")
		return api.NewServer(a).Start(serverAddr(), cfg.Server.Timeout)
	},
}

func serverAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
}

func init() {
	// Server flags
	serveCmd.Flags().StringVarP(&serverHost, "host", "H", "", "Server host (default: 0.0.0.0)")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (default: 8080)")
	serveCmd.Flags().StringVarP(&serverTimeout, "timeout", "t", "", "Server timeout (e.g., 30s, 1m)")
	serveCmd.Flags().StringVarP(&serverLogLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVarP(&serverRoot, "root", "r", ".", "directory the API analyzes")
}
