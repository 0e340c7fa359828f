package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New builds the root logger. Unknown levels fall back to info.
func New(level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "gazeink",
		Level:  lvl,
		Output: output,
	})
}

// Discard is used by tests and by commands that must keep stdout clean.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
