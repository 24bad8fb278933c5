package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathwise/pathwise/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate <module.json>",
	Short: "Validate a module definition file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		gates := 0
		for i := range def.Units {
			if def.Units[i].IsGate() {
				gates++
			}
		}
		fmt.Printf("%s: ok (%d units, %d gates, %s mode)\n",
			def.ID, len(def.Units), gates, def.Settings.EffectiveMode())
		return nil
	},
}
