// costing prices bakery recipes from their ingredients.
//
// Usage:
//
//	costing [--config costing.yaml] [--verbose] <command>
package main

import (
	"fmt"
	"os"
	"strings"

	"costing/catalog"
	"costing/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "costing",
		Short: "Unit-aware ingredient and recipe costing",
		Long: `costing converts between kitchen units, prices ingredient usages against
purchased packs and rolls them up into recipe, per-unit and COGS figures.

Ingredients and recipes can be kept in a SQLite catalog, costed one-off from a
YAML recipe file, or priced remotely through the UDP costing service.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "costing.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite catalog path (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newConvertCmd(a),
		newCostCmd(a),
		newIngredientCmd(a),
		newRecipeCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) openStore() (*catalog.Store, error) {
	st, err := catalog.Open(a.cfg.Database.Path, a.logger)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("catalog opened", zap.String("path", a.cfg.Database.Path))
	return st, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
