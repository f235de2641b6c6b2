package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/IterDiff/internal/output"
)

func newInspectCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Parse one file and print the records it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}
			printWarnings(cmd, snap)

			format := output.DetectFormat(flags.Output)
			formatter := output.NewFormatter(format)

			switch format {
			case output.FormatJSON, output.FormatYAML:
				return formatter.Format(cmd.OutOrStdout(), output.NewSnapshotView(snap))
			case output.FormatTable:
				return formatter.Format(cmd.OutOrStdout(), output.RecordsTable(snap.Label, snap.Records))
			default:
				return formatter.Format(cmd.OutOrStdout(), snap.Records)
			}
		},
	}
}
