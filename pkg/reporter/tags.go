package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/corel/pkg/tags"
)

// Tags renders a tag listing as a table, or as json when format is "json".
func Tags(w io.Writer, entries []tags.Entry, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No tags found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tVERSION\tNOTE")
	fmt.Fprintln(tw, "---\t-------\t----")
	for _, e := range entries {
		ver := e.Version
		if !e.Valid {
			ver = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, ver, note(e))
	}
	return tw.Flush()
}

func note(e tags.Entry) string {
	switch {
	case !e.Valid:
		return "ignored (not a version)"
	case e.Latest:
		return "latest"
	case e.Dropped != "":
		return "suffix " + e.Dropped + " ignored"
	case !e.Canonical:
		return "non-canonical"
	default:
		return ""
	}
}
