package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathwise/pathwise/internal/playlist"
	"github.com/pathwise/pathwise/internal/store"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <module-id>",
	Short: "Print the saved session for a module as JSON",
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
		rec, err := st.LoadSession(cmd.Context(), enrollmentID, args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no saved session for enrollment %q, module %q", enrollmentID, args[0])
		}

		// Reject blobs the engine would refuse to restore.
		if _, err := playlist.UnmarshalSession(rec.Data); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		var pretty json.RawMessage = rec.Data
		out, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("version %d, updated %s\n%s\n", rec.Version, rec.UpdatedAt.Format("2006-01-02 15:04:05"), out)
		return nil
	},
}
