package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Print job types whose handlers are built by factories",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry(zap.NewNop(), nil)
		if err != nil {
			return err
		}
		for _, typeName := range registry.Types() {
			fmt.Fprintln(cmd.OutOrStdout(), typeName)
		}
		return nil
	},
}
