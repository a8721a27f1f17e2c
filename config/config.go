package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/godigen/fn"
	"github.com/a-peyrard/godigen/option"
	"github.com/a-peyrard/godigen/reflectutils"
	"github.com/a-peyrard/godigen/str"
	"github.com/spf13/viper"
)

type (
	Options struct {
		prefix     string
		file       string
		searchDirs []string
	}

	// WithDefault is implemented by settings structs filling their own blanks after loading.
	WithDefault interface {
		ApplyDefault()
	}
)

func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// WithConfigFile reads the given file before applying environment variables.
// The file must exist.
func WithConfigFile(path string) option.Option[Options] {
	return func(opts *Options) {
		opts.file = path
	}
}

// WithSearchPaths looks for an optional "godigen" config file (any format viper knows) in the given directories.
func WithSearchPaths(dirs ...string) option.Option[Options] {
	return func(opts *Options) {
		opts.searchDirs = append(opts.searchDirs, dirs...)
	}
}

func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, options); err != nil {
		return nil, err
	}

	var vT T
	bindEnvs(v, options.prefix, reflect.New(reflect.TypeOf(vT)).Elem().Interface())

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config:\n\t%w", err)
	}

	withDefaultValueType := reflect.TypeOf((*WithDefault)(nil)).Elem()
	callApplyDefault := func(val reflect.Value, typ reflect.Type, _ []string) {
		if typ.Implements(withDefaultValueType) && val.IsValid() {
			if typ.Kind() == reflect.Pointer && val.IsNil() {
				return
			}
			val.Interface().(WithDefault).ApplyDefault()
		}
	}
	reflectutils.WalkStruct(
		&vT,
		fn.AllTriConsumer(
			reflectutils.CreateNilStructs,
			callApplyDefault,
		),
	)

	return &vT, nil
}

func readConfigFile(v *viper.Viper, options *Options) error {
	switch {
	case options.file != "":
		v.SetConfigFile(options.file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %s:\n\t%w", options.file, err)
		}
	case len(options.searchDirs) > 0:
		v.SetConfigName("godigen")
		for _, dir := range options.searchDirs {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("unable to read config file:\n\t%w", err)
			}
		}
	}
	return nil
}

func bindEnvs(viperI *viper.Viper, envPrefix string, myStruct any, parts ...string) {
	ifv := reflect.ValueOf(myStruct)
	ift := reflect.TypeOf(myStruct)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		if !t.IsExported() {
			continue
		}
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			tv = t.Name
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(viperI, envPrefix, v.Interface(), append(parts, tv)...)
		case reflect.Pointer:
			if t.Type.Elem().Kind() == reflect.Struct {
				bindEnvs(viperI, envPrefix, reflect.Zero(t.Type.Elem()).Interface(), append(parts, tv)...)
			}
		default:
			key := strings.Join(append(parts, tv), ".")
			join := strings.Join(append(parts, str.ToScreamingSnakeCase(tv)), ".")
			_ = viperI.BindEnv(key, mergeWithEnvPrefix(envPrefix, join))
		}
	}
}

func mergeWithEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}

	return strings.ToUpper(in)
}
