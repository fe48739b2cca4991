package output

import (
	"bytes"
	"encoding/json"
)

// jsonOutput is the full JSON document structure.
type jsonOutput struct {
	Directory             string              `json:"directory"`
	Missing               map[string][]string `json:"missing"`
	UnusedDependencies    []string            `json:"unused_dependencies"`
	UnusedDevDependencies []string            `json:"unused_dev_dependencies"`
	Stats                 jsonStats           `json:"stats"`
	Errors                []jsonError         `json:"errors,omitempty"`
}

type jsonStats struct {
	FilesScanned int64  `json:"files_scanned"`
	Duration     string `json:"duration"`
}

type jsonError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// JSONFormatter renders the report as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	out := jsonOutput{
		Directory:             r.Directory,
		Missing:               r.Missing,
		UnusedDependencies:    r.UnusedDependencies,
		UnusedDevDependencies: r.UnusedDevDependencies,
		Stats: jsonStats{
			FilesScanned: r.FilesScanned,
			Duration:     r.Elapsed.String(),
		},
	}
	if out.Missing == nil {
		out.Missing = map[string][]string{}
	}
	if out.UnusedDependencies == nil {
		out.UnusedDependencies = []string{}
	}
	if out.UnusedDevDependencies == nil {
		out.UnusedDevDependencies = []string{}
	}
	for _, e := range r.Errors {
		out.Errors = append(out.Errors, jsonError{Path: e.Path, Error: e.Error})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)
