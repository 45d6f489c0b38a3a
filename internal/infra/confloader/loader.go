package confloader

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is what the server's variables start with.
const DefaultEnvPrefix = "CIV7SAVE_"

// Loader merges a YAML file, the environment and flag maps with koanf.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	optional  bool
	keys      map[string]string // env form -> dotted key
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile names a YAML file that must exist.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithOptionalFile names a YAML file that may be absent.
func WithOptionalFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
		l.optional = true
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		keys:      make(map[string]string),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads the file, then the environment, into target. Fields no source
// mentions keep the defaults already in target. Flags go on top afterwards
// through LoadMap and Unmarshal.
func (l *Loader) Load(target any) error {
	for _, key := range KeysOf(target) {
		l.keys[envForm(key)] = key
	}

	if l.filePath != "" {
		if err := l.loadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func (l *Loader) loadFile(path string) error {
	if l.optional && !fileExists(path) {
		return nil
	}
	return l.LoadFile(path)
}

// LoadFile merges a YAML file. An empty path is a no-op.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	return nil
}

// LoadEnv loads configuration from environment variables.
//
// A variable maps to the known key whose dotted path, upper-cased with
// dots replaced by underscores, equals the variable name without prefix:
// CIV7SAVE_SERVER_HTTP_MAX_BODY_BYTES -> server.http.max_body_bytes.
// Variables matching no known key map every underscore to a dot.
func (l *Loader) LoadEnv() error {
	transform := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		if key, ok := l.keys[s]; ok {
			return key
		}
		return strings.ReplaceAll(s, "_", ".")
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return nil
}

// LoadMap merges values keyed by dotted path, such as parsed flags.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal copies everything merged so far into target via koanf tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// String returns the merged value at a dotted key, or "".
func (l *Loader) String(key string) string {
	return l.k.String(key)
}

// KeysOf lists the dotted koanf paths of every leaf field of the struct
// pointed to by target.
func KeysOf(target any) []string {
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	collectKeys(t, "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("koanf"), ",")[0]
		if tag == "" || tag == "-" || !f.IsExported() {
			continue
		}
		path := tag
		if prefix != "" {
			path = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct && f.Type.String() != "time.Time" {
			collectKeys(f.Type, path, keys)
			continue
		}
		*keys = append(*keys, path)
	}
}

func envForm(key string) string {
	return strings.ReplaceAll(key, ".", "_")
}
