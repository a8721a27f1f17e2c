package codegen

import (
	"github.com/a-peyrard/godigen/option"
	"github.com/rs/zerolog"
)

type Options struct {
	logger *zerolog.Logger
}

func defaultOptions() *Options {
	nop := zerolog.Nop()
	return &Options{logger: &nop}
}

func WithLogger(logger *zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}
