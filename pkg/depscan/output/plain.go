package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// PlainFormatter renders the report as plain text suitable for scripting
// and CI logs. No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	if r.Clean() {
		fmt.Fprintf(w, "No dependency issues found in %s\n", r.Directory)
		return nil
	}

	if len(r.UnusedDependencies) > 0 {
		fmt.Fprintf(w, "Unused dependencies (%d):\n", len(r.UnusedDependencies))
		for _, name := range r.UnusedDependencies {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(r.UnusedDevDependencies) > 0 {
		fmt.Fprintf(w, "Unused devDependencies (%d):\n", len(r.UnusedDevDependencies))
		for _, name := range r.UnusedDevDependencies {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "Missing dependencies (%d):\n", len(r.Missing))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, name := range r.MissingNames() {
			fmt.Fprintf(tw, "  %s\t%s\n", name, strings.Join(r.Missing[name], ", "))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
