package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathwise/pathwise/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <module-id>",
	Short: "Delete the saved session for a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadUserConfig()

		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		enrollmentID := resolveEnrollment(cmd, cfg)
		if err := st.DeleteSession(cmd.Context(), enrollmentID, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted session for enrollment %q, module %q\n", enrollmentID, args[0])
		return nil
	},
}
