package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/IterDiff/internal/core"
	"github.com/JonMunkholm/IterDiff/internal/logging"
	"github.com/JonMunkholm/IterDiff/internal/output"
)

type globalFlags struct {
	Output  string
	Verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "iterdiff",
		Short: "Compare two snapshots of an iteration's work items",
		Long: `iterdiff reads two exports of the same iteration (.csv, .tsv or .xlsx)
and lists the work items that were removed, added, or are present in both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := output.ParseFormat(flags.Output); err != nil {
				return err
			}
			level := os.Getenv("LOG_LEVEL")
			if level == "" {
				level = "warn"
			}
			if flags.Verbose {
				level = "debug"
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, "text"))
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "", "output format: table, json, yaml, tsv, csv (default: table on a terminal, tsv otherwise)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(
		newCompareCmd(flags),
		newInspectCmd(flags),
		newColumnsCmd(flags),
	)

	return cmd
}

// loadSnapshot reads and parses one file.
func loadSnapshot(path string) (*core.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format, err := core.FormatFromName(path)
	if err != nil {
		return nil, err
	}

	records, err := core.ParseFile(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}

	snap := core.NewSnapshot(filepath.Base(path), format, records)
	slog.Debug("snapshot parsed",
		"file", path,
		"format", format,
		"records", snap.Len(),
		"duplicates", len(snap.Duplicates),
	)
	return snap, nil
}

func printWarnings(cmd *cobra.Command, snaps ...*core.Snapshot) {
	for _, s := range snaps {
		for _, w := range s.Warnings() {
			cmd.PrintErrln("warning:", w)
		}
	}
}
