package reporter

import (
	"encoding/json"
	"io"

	"github.com/corel/pkg/release"
)

type JSONReporter struct{}

func (r *JSONReporter) Report(w io.Writer, res release.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
