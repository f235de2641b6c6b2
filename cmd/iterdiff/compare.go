package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/IterDiff/internal/core"
	"github.com/JonMunkholm/IterDiff/internal/output"
)

func newCompareCmd(flags *globalFlags) *cobra.Command {
	var partition string

	cmd := &cobra.Command{
		Use:   "compare ORIGINAL UPDATED",
		Short: "Reconcile two snapshots by work item ID",
		Example: `  iterdiff compare sprint-11.csv sprint-12.xlsx
  iterdiff compare old.csv new.csv -p added -o tsv | pbcopy`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var only core.Partition
			if partition != "" {
				p, err := core.ParsePartition(partition)
				if err != nil {
					return err
				}
				only = p
			}

			original, err := loadSnapshot(args[0])
			if err != nil {
				return fmt.Errorf("original: %w", err)
			}
			updated, err := loadSnapshot(args[1])
			if err != nil {
				return fmt.Errorf("updated: %w", err)
			}
			printWarnings(cmd, original, updated)

			result := core.Reconcile(original.Records, updated.Records)
			format := output.DetectFormat(flags.Output)

			return writeResult(cmd, format, original, updated, result, only)
		},
	}

	cmd.Flags().StringVarP(&partition, "partition", "p", "", "only print one partition: removed, added, matching")

	return cmd
}

func writeResult(cmd *cobra.Command, format output.Format, original, updated *core.Snapshot, result core.Result, only core.Partition) error {
	w := cmd.OutOrStdout()
	formatter := output.NewFormatter(format)

	if only != "" {
		records, err := result.Records(only)
		if err != nil {
			return err
		}
		switch format {
		case output.FormatJSON, output.FormatYAML:
			return formatter.Format(w, output.RecordViews(records))
		case output.FormatTable:
			return formatter.Format(w, output.RecordsTable(only.Caption(), records))
		default:
			return formatter.Format(w, records)
		}
	}

	switch format {
	case output.FormatJSON, output.FormatYAML:
		view := output.NewResultView(original.Label, updated.Label, result)
		view.Warnings = append(original.Warnings(), updated.Warnings()...)
		return formatter.Format(w, view)
	case output.FormatTSV, output.FormatCSV:
		return fmt.Errorf("%s output needs a single partition, pass --partition", format)
	default:
		return formatter.Format(w, output.ResultTables(result))
	}
}
