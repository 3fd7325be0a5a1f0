package confloader

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is used unless WithEnvPrefix overrides it.
const DefaultEnvPrefix = "TRACKER_"

// Double underscores mark nesting in variable names so single ones can stay
// inside keys: TRACKER_STORAGE__DATA_DIR is storage.data_dir.
const envNesting = "__"

// Loader layers a YAML file, then environment variables, over the defaults
// already present in the target struct.
type Loader struct {
	k            *koanf.Koanf
	envPrefix    string
	filePath     string
	fileOptional bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile names the YAML file Load reads.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// WithOptionalFile lets Load proceed when the file does not exist.
func WithOptionalFile() Option {
	return func(l *Loader) { l.fileOptional = true }
}

// NewLoader returns a Loader with no sources read yet.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{k: koanf.New("."), envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file and environment, then unmarshals into target. Fields
// no source mentions keep the values target already had.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		err := l.k.Load(file.Provider(l.filePath), yaml.Parser())
		switch {
		case err == nil:
		case l.fileOptional && errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("load config file %s: %w", l.filePath, err)
		}
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func (l *Loader) envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, l.envPrefix))
	return strings.ReplaceAll(name, envNesting, ".")
}

// LoadMap merges dotted keys from data, for example command-line overrides.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal decodes everything loaded so far into target using koanf tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}
