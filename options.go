package godigen

import (
	"runtime"

	"github.com/a-peyrard/godigen/option"
	"github.com/rs/zerolog"
)

type Options struct {
	unused      Severity
	concurrency int
	logger      *zerolog.Logger
}

func defaultOptions() *Options {
	nop := zerolog.Nop()
	return &Options{
		unused:      SeverityOff,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      &nop,
	}
}

// WithUnusedBindings sets the severity of unused Provides and Binds declarations.
// A graph can still override it.
func WithUnusedBindings(severity Severity) option.Option[Options] {
	return func(opts *Options) {
		opts.unused = severity
	}
}

// WithConcurrency bounds the number of graphs built at the same time.
func WithConcurrency(n int) option.Option[Options] {
	return func(opts *Options) {
		if n > 0 {
			opts.concurrency = n
		}
	}
}

func WithLogger(logger *zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}
