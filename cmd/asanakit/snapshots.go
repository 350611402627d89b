package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/asanakit/asanakit/internal/snapshot"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots [kind]",
	Short: "List snapshots recorded by export",
	Long: `List the snapshots recorded in a database by export, newest first.
Only the database is read; the API is not contacted.

Examples:
  asanakit snapshots --db tasks.db
  asanakit snapshots tasks --db tasks.db
  asanakit snapshots show 1204567 --db tasks.db`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dbPath, _ := cmd.Flags().GetString("db")
		kind := ""
		if len(args) == 1 {
			kind = args[0]
		}

		if err := runSnapshots(cmd.Context(), cmd.OutOrStdout(), kind, dbPath); err != nil {
			handleError(err)
		}
	},
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <gid>",
	Short: "Show the latest exported payload of an entity",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dbPath, _ := cmd.Flags().GetString("db")

		if err := runSnapshotShow(cmd.Context(), cmd.OutOrStdout(), args[0], dbPath); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)

	snapshotsCmd.PersistentFlags().String("db", "asanakit.db", "SQLite database file")
}

// openExisting opens a snapshot database that export has already created.
func openExisting(dbPath string) (*snapshot.Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no snapshot database at %s: %w", dbPath, err)
	}
	return snapshot.Open(dbPath)
}

// runSnapshots lists snapshots, optionally of one kind
func runSnapshots(ctx context.Context, w io.Writer, kind, dbPath string) error {
	resource := ""
	if kind != "" {
		d, err := lookupKind(kind)
		if err != nil {
			return err
		}
		resource = d.Resource()
	}

	store, err := openExisting(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.Snapshots(ctx, resource)
	if err != nil {
		return err
	}

	printSnapshotList(w, snaps, jsonOutput)
	return nil
}

// runSnapshotShow prints the latest stored payload for gid
func runSnapshotShow(ctx context.Context, w io.Writer, gid, dbPath string) error {
	store, err := openExisting(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	payload, err := store.Get(ctx, gid)
	if err != nil {
		return err
	}

	printObject(w, payload, jsonOutput)
	return nil
}
