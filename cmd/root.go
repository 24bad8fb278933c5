package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathwise/pathwise/internal/catalog"
	"github.com/pathwise/pathwise/internal/config"
	"github.com/pathwise/pathwise/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pathwise",
	Short: "Adaptive playlist player for learning modules",
	Long:  "Pathwise — terminal player that sequences a learner through a module's learning units, with checkpoint gates, remedial practice, and mastery-based skipping.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PATHWISE_DB env var)")
	rootCmd.PersistentFlags().String("module", "", "Path to a module definition JSON file (default: built-in sample)")
	rootCmd.PersistentFlags().String("enrollment", "", "Enrollment id identifying the learner")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadUserConfig reads the config file, tolerating a missing one.
func loadUserConfig() *config.Config {
	path, err := config.DefaultPath()
	if err != nil {
		return &config.Config{}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return &config.Config{}
	}
	return cfg
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then PATHWISE_DB env var / config file, then the default
// XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// resolveEnrollment returns the learner id from the flag, then the
// config file, then the built-in default.
func resolveEnrollment(cmd *cobra.Command, cfg *config.Config) string {
	if id, _ := cmd.Flags().GetString("enrollment"); id != "" {
		return id
	}
	return cfg.Enrollment()
}

// resolveModule loads the module definition named by the flag or config
// file, falling back to the built-in sample module.
func resolveModule(cmd *cobra.Command, cfg *config.Config) (*catalog.ModuleDefinition, error) {
	path, _ := cmd.Flags().GetString("module")
	if path == "" {
		path = cfg.ModulePath
	}
	if path == "" {
		return catalog.SampleModule(), nil
	}
	def, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load module %s: %w", path, err)
	}
	return def, nil
}
