package buffer

import "log/slog"

type config struct {
	logger *slog.Logger
}

type Option func(*config)

// WithLogger sets the logger for replacer and pool events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
