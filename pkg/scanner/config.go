package scanner

import "github.com/zerodha/logf"

// Options represents configuration options for the search engine.
type Options struct {
	debug bool // Enable debug logging of resolved offsets and filter passes.
}

// Config is a function on the Options for the engine.
type Config func(*Options) error

func DefaultOptions() *Options {
	return &Options{
		debug: false,
	}
}

func WithDebug() Config {
	return func(o *Options) error {
		o.debug = true
		return nil
	}
}

// initLogger initializes logger instance.
func initLogger(debug bool) logf.Logger {
	opts := logf.Opts{EnableCaller: true}
	if debug {
		opts.Level = logf.DebugLevel
	}
	return logf.New(opts)
}
