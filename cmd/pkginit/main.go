// Command pkginit generates Python package manifests (__init__.py files)
// from source analysis: it scans a package tree, collects exports, groups
// them into sections, orders them, and writes or previews the result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pkginit/internal/config"
	"pkginit/internal/gen"
	"pkginit/internal/scan"
)

var version = "dev"

var (
	cfgPath string
	verbose bool
	dryRun  bool

	logger = log.New(os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:   "pkginit",
	Short: "Generate __init__.py manifests for Python package trees",
	Long: `pkginit scans a Python package tree bottom-up, collects each module's
exports, groups them into configurable sections, orders them by the
configured policy, and composes one __init__.py per package directory.

Generation is deterministic: the same tree and configuration always
produce byte-identical manifests, and re-running over generated output
reports no changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate manifests and write them to disk",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		results, err := run(cmd, root, cfg)
		if err != nil {
			return err
		}
		if dryRun {
			fmt.Fprint(cmd.OutOrStdout(), renderReport(results))
			return nil
		}
		writer := gen.DiskWriter{Root: root, ManifestName: cfg.Global.ManifestName}
		writeErrs := gen.Commit(results, writer)
		for _, werr := range writeErrs {
			logger.Error("write failed", "err", werr)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderReport(results))
		if len(writeErrs) > 0 {
			return fmt.Errorf("%d manifest(s) not written", len(writeErrs))
		}
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [path]",
	Short: "Show what generate would produce, without writing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		results, err := run(cmd, root, cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderPreview(results))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pkginit version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pkginit %s\n", version)
	},
}

// run executes the scan and generation pipeline over root. The returned
// results serve preview and commit alike; nothing is recomputed between
// the two.
func run(cmd *cobra.Command, root string, cfg *config.Config) (gen.Results, error) {
	scanner := scan.New(root, cfg.Global.ManifestName, logger)
	tree, err := scanner.Scan(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	runner := gen.New(cfg, gen.DiskReader{Root: root, ManifestName: cfg.Global.ManifestName}, logger)
	runner.RootPackage = filepath.Base(root)
	return runner.Run(cmd.Context(), tree)
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.New(config.Default()), nil
	}
	return config.Load(cfgPath)
}

func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML, TOML, or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")

	rootCmd.AddCommand(generateCmd, previewCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("failed", "err", err)
		os.Exit(1)
	}
}
