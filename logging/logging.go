// Package logging builds the zerolog logger used across procon's
// binaries: a timestamped console writer for terminals, plain JSON
// otherwise.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// New builds a logger writing to w at the given level. An unrecognised
// level string falls back to info rather than erroring, since a bad
// --log-level flag shouldn't prevent the rest of the program from running.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).With().Timestamp().Logger().Level(lvl)
}

// Default builds a logger writing to stderr at info level. Nothing in this
// module calls it; the packages that accept a *zerolog.Logger take nil
// instead.
func Default() zerolog.Logger {
	return New(os.Stderr, zerolog.InfoLevel.String())
}
