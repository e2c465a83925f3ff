package main

import (
	"github.com/joshuapare/heapkit"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newConfigsCmd())
}

func newConfigsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configs",
		Short: "List the predefined arena configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs := []heapkit.Config{
				heapkit.ConfigCompact,
				heapkit.ConfigBalanced,
				heapkit.ConfigThroughput,
			}
			if jsonOut {
				return printJSON(configs)
			}
			printInfo("%-12s %12s %12s\n", "NAME", "GROW QUANTUM", "SPLIT SHIFT")
			for _, c := range configs {
				printInfo("%-12s %12s %12d\n", c.Name, formatBytes(int64(c.GrowQuantum)), c.SplitShift)
			}
			return nil
		},
	}
}
