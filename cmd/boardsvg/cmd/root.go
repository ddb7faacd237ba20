package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/benoitkugler/boardsvg/config"
	"github.com/benoitkugler/boardsvg/svgtheme"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	staticPath string
	themeID    string
	size       int
	output     string
)

var rootCmd = &cobra.Command{
	Use:   "boardsvg",
	Short: "Render board game positions as SVG",
	Long: `Render board positions of chess variants as standalone SVG documents,
using the piece themes of a static asset tree (piece/<theme>.css and images/).

Settings are read from BOARDSVG_STATIC_PATH, BOARDSVG_THEME and BOARDSVG_SIZE,
and overridden by the flags.

Examples:
  boardsvg board "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b" --lastmove e2e4
  boardsvg piece K --theme alpha --size 90 -o king.svg
  boardsvg theme merida`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log missing assets to stderr")
	rootCmd.PersistentFlags().StringVar(&staticPath, "static", "", "root of the asset tree (default $BOARDSVG_STATIC_PATH)")
	rootCmd.PersistentFlags().StringVarP(&themeID, "theme", "t", "", "piece theme (default $BOARDSVG_THEME)")
	rootCmd.PersistentFlags().IntVarP(&size, "size", "s", 0, "width and height of the output (default $BOARDSVG_SIZE)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
}

// env holds the resolved settings of one command run.
type env struct {
	cfg      config.Config
	logger   *log.Logger
	registry *svgtheme.Registry
}

// setup merges the environment configuration with the flags
// set on the command line.
func setup(cmd *cobra.Command) (env, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return env{}, fmt.Errorf("invalid configuration: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("static") {
		cfg.StaticPath = staticPath
	}
	if flags.Changed("theme") {
		cfg.Theme = themeID
	}
	if flags.Changed("size") {
		if size < 0 {
			return env{}, fmt.Errorf("invalid size %d", size)
		}
		cfg.Size = size
	}

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "boardsvg: ", 0)
	}
	if info, err := os.Stat(cfg.StaticPath); err != nil || !info.IsDir() {
		logger.Printf("ERROR: static path %s is not a directory", cfg.StaticPath)
	}

	return env{
		cfg:      cfg,
		logger:   logger,
		registry: svgtheme.NewRegistry(os.DirFS(cfg.StaticPath), logger),
	}, nil
}

// writeOutput writes the document to the --output file, or to
// the standard output of the command.
func writeOutput(cmd *cobra.Command, doc string) error {
	if output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), doc+"\n")
		return err
	}
	if err := os.WriteFile(output, []byte(doc+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
	}
	return nil
}
