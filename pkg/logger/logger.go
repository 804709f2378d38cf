// Package logger holds the process-wide zerolog logger. The server and the
// import command call Init once from main; services receive a Component
// child so their entries can be filtered by subsystem.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level accepts trace, debug, info, warn or error. Anything else means info.
	Level string
	// Pretty switches to zerolog's console writer for local runs.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is stamped on every entry when set.
	Service string
	// Caller records the file:line of each log call.
	Caller bool
}

var current atomic.Pointer[zerolog.Logger]

// New builds a logger from opts without touching the process-wide one.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(parseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Init installs the process-wide logger and returns it. Once a logger is
// installed, later calls return the existing one and ignore opts.
func Init(opts Options) zerolog.Logger {
	if l := current.Load(); l != nil {
		return *l
	}

	l := New(opts)
	if !current.CompareAndSwap(nil, &l) {
		return *current.Load()
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(l.GetLevel())
	return l
}

// Get returns the installed logger and panics before Init.
func Get() zerolog.Logger {
	l := current.Load()
	if l == nil {
		panic("logger: Get called before Init")
	}
	return *l
}

// Reset forgets the installed logger. Tests use it to start from scratch.
func Reset() {
	current.Store(nil)
}

// Component tags the installed logger with a subsystem name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	switch lvl, err := zerolog.ParseLevel(s); {
	case err != nil, lvl == zerolog.NoLevel, lvl > zerolog.ErrorLevel:
		return zerolog.InfoLevel
	default:
		return lvl
	}
}
