package loader

import (
	"github.com/a-peyrard/godigen/config"
	"github.com/a-peyrard/godigen/option"
	"github.com/rs/zerolog"
)

type Options struct {
	dir             string
	generatedSuffix string
	tests           bool
	logger          *zerolog.Logger
}

func defaultOptions() *Options {
	nop := zerolog.Nop()
	return &Options{
		generatedSuffix: config.DefaultOutputSuffix,
		logger:          &nop,
	}
}

// WithDir sets the directory the patterns are relative to, the current directory by default.
func WithDir(dir string) option.Option[Options] {
	return func(opts *Options) {
		opts.dir = dir
	}
}

// WithGeneratedSuffix names the files written by godigen, they are never scanned.
func WithGeneratedSuffix(suffix string) option.Option[Options] {
	return func(opts *Options) {
		if suffix != "" {
			opts.generatedSuffix = suffix
		}
	}
}

func WithTests(tests bool) option.Option[Options] {
	return func(opts *Options) {
		opts.tests = tests
	}
}

func WithLogger(logger *zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}
