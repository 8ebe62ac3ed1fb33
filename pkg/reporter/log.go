package reporter

import (
	"fmt"
	"io"
)

// Log writes progress messages. Quiet suppresses everything but errors;
// debug lines are only shown when Debug is set.
type Log struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool
	Debug bool
}

func (l *Log) Infof(format string, args ...any) {
	if l.Quiet {
		return
	}
	fmt.Fprintf(l.Out, format+"\n", args...)
}

func (l *Log) Debugf(format string, args ...any) {
	if l.Quiet || !l.Debug {
		return
	}
	fmt.Fprintf(l.Out, "DEBUG: "+format+"\n", args...)
}

func (l *Log) Errorf(format string, args ...any) {
	fmt.Fprintf(l.Err, "ERROR: "+format+"\n", args...)
}
