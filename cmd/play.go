package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathwise/pathwise/internal/app"
	"github.com/pathwise/pathwise/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play through a module",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func runPlay(cmd *cobra.Command) error {
	cfg := loadUserConfig()

	def, err := resolveModule(cmd, cfg)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return app.Run(app.Options{
		Module:       def,
		Store:        st,
		EnrollmentID: resolveEnrollment(cmd, cfg),
	})
}
