package cmd

import (
	"github.com/spf13/cobra"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/adapters"
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List the available adapters and their parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := adapter.NewRegistry()
		if err := adapters.RegisterBuiltins(registry); err != nil {
			return err
		}
		for _, d := range registry.Descriptors() {
			cmd.Printf("%-20s %-7s %s\n", d.Name, d.Kind, d.Summary)
			for _, p := range d.Params {
				required := ""
				if p.Required {
					required = " (required)"
				}
				cmd.Printf("    --%-28s %s%s\n", adapter.FlagName(d, p), p.Usage, required)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adaptersCmd)
}
