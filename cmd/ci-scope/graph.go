package main

import (
	"fmt"
	"os"

	"github.com/alevsk/ci-scope/internal/analyzer"
	"github.com/alevsk/ci-scope/internal/formatter"
	"github.com/alevsk/ci-scope/internal/graph"
	"github.com/alevsk/ci-scope/internal/logger"
	"github.com/alevsk/ci-scope/internal/render"
	"github.com/spf13/cobra"
)

var (
	graphRoot    string
	graphOutput  string
	graphDOT     string
	graphMatcher string
	graphList    bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Draw the include and extends relationships of a repository",
	Long: `Scan a directory tree for GitLab CI YAML files, resolve their include and
extends references, and draw the resulting dependency graph as a PNG image.

Files that cannot be parsed are reported and skipped. The command does not fail
because of the content it scans.

Examples:
  # Graph the current directory
  ci-scope graph

  # Graph another checkout and also write Graphviz DOT
  ci-scope graph --root ../pipelines --dot relationships.dot

  # Match references strictly and list every relationship
  ci-scope graph --matcher exact --list`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	PreRun: func(cmd *cobra.Command, args []string) {
		// Override config values with flags if provided
		if cmd.Flags().Changed("root") {
			cfg.Root = graphRoot
		}
		if cmd.Flags().Changed("output-file") {
			cfg.Graph.Output = graphOutput
		}
		if cmd.Flags().Changed("dot") {
			cfg.Graph.DOT = graphDOT
		}
		if cmd.Flags().Changed("matcher") {
			cfg.Matcher = graphMatcher
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			logger.Debug().Strs("args", args).Msg("ignoring positional arguments")
		}
		runGraph(cmd)
		return nil
	},
}

// runGraph scans, prints the counts, and writes the image. Failures are logged.
func runGraph(cmd *cobra.Command) {
	out := cmd.OutOrStdout()

	a, err := newAnalyzer()
	if err != nil {
		logger.Error().Err(err).Msg("invalid analyzer configuration")
		return
	}

	scan, err := a.Scan(cmd.Context())
	if err != nil {
		logger.Error().Err(err).Str("root", cfg.Root).Msg("scan failed")
		scan = emptyScan(a)
	}

	fmt.Fprintf(out, "Found %d YAML files\n", len(scan.Files))
	fmt.Fprintf(out, "Found %d relationships\n", len(scan.Relationships))

	if graphList {
		fmt.Fprintln(out, formatter.RelationshipTable(scan.Report()))
	}

	if cfg.Graph.DOT != "" {
		if err := writeDOT(scan, cfg.Graph.DOT); err != nil {
			logger.Error().Err(err).Str("path", cfg.Graph.DOT).Msg("failed to write DOT file")
		}
	}

	renderer := render.NewPNGRenderer(&render.Options{
		Width:  cfg.Graph.Width,
		Height: cfg.Graph.Height,
		Title:  cfg.Graph.Title,
	})
	if err := renderer.RenderFile(scan.Graph, cfg.Graph.Output); err != nil {
		logger.Error().Err(err).Str("path", cfg.Graph.Output).Msg("failed to render graph")
		return
	}
	fmt.Fprintf(out, "Graph created and saved as '%s'\n", cfg.Graph.Output)
}

func emptyScan(a *analyzer.Analyzer) *analyzer.Scan {
	scan := &analyzer.Scan{Root: a.Root()}
	scan.Graph, _ = graph.Build(nil)
	return scan
}

func writeDOT(scan *analyzer.Scan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return scan.Graph.WriteDOT(f)
}

func init() {
	flags := graphCmd.Flags()
	flags.StringVarP(&graphRoot, "root", "r", ".", "directory to scan for pipeline files")
	flags.StringVarP(&graphOutput, "output-file", "O", "", "path of the PNG image (default: gitlab_templates_relationships.png)")
	flags.StringVar(&graphDOT, "dot", "", "also write the graph in Graphviz DOT format to this path")
	flags.StringVar(&graphMatcher, "matcher", "", "reference matching strategy (heuristic, exact)")
	flags.BoolVar(&graphList, "list", false, "print a table of every relationship found")
}
