package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PrettyFormatter renders the report with colors and styling using lipgloss,
// suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	if r.Clean() {
		w.WriteString(SuccessStyle.Render("No dependency issues found"))
		w.WriteString("\n")
		return nil
	}

	if len(r.UnusedDependencies) > 0 {
		f.formatNames(w, "Unused dependencies", r.UnusedDependencies, WarningStyle)
	}
	if len(r.UnusedDevDependencies) > 0 {
		f.formatNames(w, "Unused devDependencies", r.UnusedDevDependencies, WarningStyle)
	}
	if len(r.Missing) > 0 {
		w.WriteString(TitleStyle.Render(fmt.Sprintf("Missing dependencies (%d)", len(r.Missing))))
		w.WriteString("\n")
		for _, name := range r.MissingNames() {
			w.WriteString("  " + DangerStyle.Render(name))
			w.WriteString(MutedStyle.Render("  " + strings.Join(r.Missing[name], ", ")))
			w.WriteString("\n")
		}
		w.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		w.WriteString(LabelStyle.Render(fmt.Sprintf("%d path(s) could not be scanned", len(r.Errors))))
		w.WriteString("\n")
	}
	return nil
}

// formatHeader builds the header box with directory and scan stats.
func (f *PrettyFormatter) formatHeader(r *Report) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s",
		LabelStyle.Render("Project:"), r.Directory))
	lines = append(lines, fmt.Sprintf("%s %d files in %s",
		LabelStyle.Render("Scanned:"), r.FilesScanned, r.Elapsed.Round(time.Millisecond)))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatNames writes one titled section of bare dependency names.
func (f *PrettyFormatter) formatNames(w *bytes.Buffer, title string, names []string, style lipgloss.Style) {
	w.WriteString(TitleStyle.Render(fmt.Sprintf("%s (%d)", title, len(names))))
	w.WriteString("\n")
	for _, name := range names {
		w.WriteString("  " + style.Render(name))
		w.WriteString("\n")
	}
	w.WriteString("\n")
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
