package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/asanakit/asanakit/internal/snapshot"
	"github.com/asanakit/asanakit/pkg/asana/models"
)

// printObject prints one raw entity as JSON or as a field table
func printObject(w io.Writer, raw json.RawMessage, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, raw)
		return
	}

	obj, err := decodeObject(raw)
	if err != nil {
		fmt.Fprintln(w, string(raw))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, key := range orderedKeys(obj) {
		fmt.Fprintf(tw, "%s:\t%s\n", key, truncate(formatValue(obj[key]), 80))
	}
	tw.Flush()
}

// printList prints a listing as a JSON array or as a table
func printList(w io.Writer, resource string, items []json.RawMessage, jsonOutput bool) {
	if jsonOutput {
		if items == nil {
			items = []json.RawMessage{}
		}
		printJSON(w, items)
		return
	}

	if len(items) == 0 {
		fmt.Fprintf(w, "No %s found\n", resource)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "GID\tNAME\tTYPE\n")
	fmt.Fprintf(tw, "---\t----\t----\n")
	for _, item := range items {
		obj, err := decodeObject(item)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			formatValue(obj["gid"]), truncate(formatValue(obj["name"]), 50), formatValue(obj["resource_type"]))
	}
	tw.Flush()
}

// printUser prints the authenticated user
func printUser(w io.Writer, user models.User, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, user)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "GID:\t%s\n", user.GID)
	fmt.Fprintf(tw, "Name:\t%s\n", user.Name)
	if user.Email != "" {
		fmt.Fprintf(tw, "Email:\t%s\n", user.Email)
	}
	tw.Flush()
}

// printKinds prints the known entity kinds with their field selection
func printKinds(w io.Writer, jsonOutput bool) {
	kinds := models.Kinds()

	if jsonOutput {
		out := make(map[string]string, len(kinds))
		for _, kind := range kinds {
			d, _ := models.Lookup(kind)
			out[kind] = d.OptFields()
		}
		printJSON(w, out)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "KIND\tFIELDS\n")
	fmt.Fprintf(tw, "----\t------\n")
	for _, kind := range kinds {
		d, _ := models.Lookup(kind)
		fmt.Fprintf(tw, "%s\t%s\n", kind, d.OptFields())
	}
	tw.Flush()
}

// printSnapshot prints the result of an export
func printSnapshot(w io.Writer, snap *snapshot.Snapshot, dbPath string, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{
			"snapshot_id": snap.ID,
			"resource":    snap.Resource,
			"scope":       snap.Scope,
			"count":       snap.Count,
			"taken_at":    snap.TakenAt,
			"database":    dbPath,
		})
		return
	}

	fmt.Fprintf(w, "Exported %d %s to %s (snapshot %d)\n", snap.Count, snap.Resource, dbPath, snap.ID)
}

// printSnapshotList prints recorded snapshots
func printSnapshotList(w io.Writer, snaps []snapshot.Snapshot, jsonOutput bool) {
	if jsonOutput {
		out := make([]map[string]interface{}, 0, len(snaps))
		for _, snap := range snaps {
			out = append(out, map[string]interface{}{
				"snapshot_id": snap.ID,
				"resource":    snap.Resource,
				"scope":       snap.Scope,
				"count":       snap.Count,
				"taken_at":    snap.TakenAt,
			})
		}
		printJSON(w, out)
		return
	}

	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tRESOURCE\tSCOPE\tITEMS\tTAKEN AT\n")
	fmt.Fprintf(tw, "--\t--------\t-----\t-----\t--------\n")
	for _, snap := range snaps {
		scope := snap.Scope
		if scope == "" {
			scope = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			snap.ID, snap.Resource, scope, snap.Count, snap.TakenAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{
			"error": map[string]interface{}{
				"message": err.Error(),
			},
		})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{
			"message": message,
		})
		return
	}

	fmt.Fprintln(w, message)
}

func printJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func decodeObject(raw json.RawMessage) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// orderedKeys puts gid and resource_type first and sorts the rest.
func orderedKeys(obj map[string]interface{}) []string {
	var keys []string
	for _, key := range []string{"gid", "resource_type"} {
		if _, ok := obj[key]; ok {
			keys = append(keys, key)
		}
	}

	var rest []string
	for key := range obj {
		if key != "gid" && key != "resource_type" {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	return append(keys, rest...)
}

// formatValue renders strings bare, null as "-" and everything else as
// compact JSON.
func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// truncate truncates a string to the given length, adding "..." if needed
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
