package reporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/corel/pkg/release"
)

// TextReporter prints a short summary. In print-version mode only the version
// is written so the output can be captured by scripts.
type TextReporter struct{}

func (r *TextReporter) Report(w io.Writer, res release.Result) error {
	if res.Mode == release.PrintOnly {
		_, err := fmt.Fprintln(w, res.Next)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	base := res.Baseline
	if res.AutoInit {
		base = "(auto-init from " + res.Previous + ")"
	}
	fmt.Fprintf(tw, "Baseline:\t%s\n", base)
	fmt.Fprintf(tw, "Commits:\t%d (major %d, minor %d, patch %d)\n",
		res.Commits.Total(), res.Commits.Major, res.Commits.Minor, res.Commits.Patch)
	fmt.Fprintf(tw, "Strategy:\t%s\n", res.Strategy)
	fmt.Fprintf(tw, "Bump:\t%s\n", res.Highest)
	fmt.Fprintf(tw, "Version:\t%s -> %s\n", res.Previous, res.Next)

	switch {
	case res.Mode == release.DryRun:
		fmt.Fprintf(tw, "Tag:\t%s (dry run, not created)\n", res.Next)
	case res.Pushed:
		fmt.Fprintf(tw, "Tag:\t%s (created and pushed)\n", res.Next)
	case res.Created:
		fmt.Fprintf(tw, "Tag:\t%s (created locally)\n", res.Next)
	}
	return tw.Flush()
}
