package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/asanakit/asanakit/internal/snapshot"
)

var exportCmd = &cobra.Command{
	Use:   "export <kind>",
	Short: "Save a listing into a SQLite snapshot",
	Long: `Fetch one page of a listing and record it as a new snapshot in a SQLite
database. Each run appends a snapshot; earlier ones are kept.

Examples:
  asanakit export tasks --from project:1200001 --db tasks.db`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		limit, _ := cmd.Flags().GetInt("limit")
		dbPath, _ := cmd.Flags().GetString("db")

		if err := runExport(cmd.Context(), cmd.OutOrStdout(), args[0], from, limit, dbPath); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("from", "", "Parent scope as kind:gid")
	exportCmd.Flags().Int("limit", 0, "Page size (1-100)")
	exportCmd.Flags().String("db", "asanakit.db", "SQLite database file")
}

// runExport fetches a listing and stores it as a snapshot
func runExport(ctx context.Context, w io.Writer, kind, from string, limit int, dbPath string) error {
	d, err := lookupKind(kind)
	if err != nil {
		return err
	}

	items, parent, err := fetchListing(ctx, d, from, limit)
	if err != nil {
		return err
	}

	store, err := snapshot.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Save(ctx, d.Resource(), parent, items)
	if err != nil {
		return err
	}

	printSnapshot(w, snap, dbPath, jsonOutput)
	return nil
}
