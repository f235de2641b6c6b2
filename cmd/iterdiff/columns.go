package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/IterDiff/internal/core"
	"github.com/JonMunkholm/IterDiff/internal/output"
)

func newColumnsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the recognized column headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := output.DetectFormat(flags.Output)
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), core.Fields())
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.ColumnsTable())
		},
	}
}
