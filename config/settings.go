package config

import "runtime"

const (
	EnvPrefix           = "GODIGEN"
	DefaultOutputSuffix = "godigen_gen.go"
)

type (
	// Settings drives a godigen run. Every field can be set from GODIGEN_* variables
	// or from a godigen.yaml file next to go.mod.
	Settings struct {
		LogLevel    string
		DryRun      bool
		Concurrency int
		Output      *OutputSettings
		Lint        *LintSettings
	}

	OutputSettings struct {
		Suffix string
	}

	LintSettings struct {
		// UnusedBindings is one of "off", "warning" or "error".
		UnusedBindings string
		Strict         bool
	}
)

func (s *Settings) ApplyDefault() {
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Concurrency <= 0 {
		s.Concurrency = runtime.GOMAXPROCS(0)
	}
}

func (o *OutputSettings) ApplyDefault() {
	if o.Suffix == "" {
		o.Suffix = DefaultOutputSuffix
	}
}

func (l *LintSettings) ApplyDefault() {
	if l.UnusedBindings == "" {
		if l.Strict {
			l.UnusedBindings = "warning"
		} else {
			l.UnusedBindings = "off"
		}
	}
}

// LoadSettings reads the settings from the environment, and from an optional godigen file
// found in one of the given directories.
func LoadSettings(dirs ...string) (*Settings, error) {
	return Load[Settings](WithEnvPrefix(EnvPrefix), WithSearchPaths(dirs...))
}
