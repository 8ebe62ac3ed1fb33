package reporter

import (
	"io"

	"github.com/corel/pkg/release"
)

type Reporter interface {
	Report(w io.Writer, res release.Result) error
}

func New(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	default:
		return &TextReporter{}
	}
}
