package main

import (
	"errors"
	"fmt"

	"github.com/alevsk/ci-scope/internal/analyzer"
	"github.com/alevsk/ci-scope/internal/formatter"
	"github.com/alevsk/ci-scope/internal/logger"
	"github.com/spf13/cobra"
)

const pipelineUsage = "usage: ci-scope pipeline <path_to_gitlab_ci_yaml>"

var pipelineOutput string

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <path_to_gitlab_ci_yaml>",
	Short: "Break a pipeline file down by stage and included template",
	Long: `Analyze a single GitLab CI file: list the files it includes from other
projects, the stages it declares, the jobs of every stage with the templates they
extend, and the included file each dotted template presumably comes from.

Examples:
  # Plain text report
  ci-scope pipeline .gitlab-ci.yml

  # Tables, or machine readable output
  ci-scope pipeline .gitlab-ci.yml -o table
  ci-scope pipeline .gitlab-ci.yml -o json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return &usageError{usage: pipelineUsage}
		}
		return nil
	},
	PreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("output") {
			cfg.Report.Format = pipelineOutput
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		typ, err := formatter.ParseType(cfg.Report.Format)
		if err != nil {
			return err
		}
		f, err := formatter.NewFormatter(typ)
		if err != nil {
			return err
		}

		a, err := newAnalyzer()
		if err != nil {
			return err
		}

		analysis, err := a.Pipeline(cmd.Context(), path)
		if errors.Is(err, analyzer.ErrFileNotFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "File not found: %s\n", path)
			return errReported
		}
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("failed to analyze pipeline")
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading or parsing YAML file: %v\n", err)
			return errReported
		}

		output, err := f.Format(analysis.Report())
		if err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	pipelineCmd.Flags().StringVarP(&pipelineOutput, "output", "o", "text", "output format (text, table, markdown, json, yaml)")
}
