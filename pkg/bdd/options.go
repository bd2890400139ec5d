package bdd

import "log/slog"

// Options configures a Runner.
type Options struct {
	// Logger receives run and per-failure records.
	// If nil, records are discarded.
	Logger *slog.Logger
}

// Option is a functional option for configuring Describe.
type Option func(*Options)

// WithLogger sets the logger used by the Runner.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func applyDefaults(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
}
