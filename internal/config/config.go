// Package config loads and validates the .addasync.yaml project file.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/toyz/addasync/internal/errors"
)

// FileName is the configuration file looked up by LoadOrDefault
const FileName = ".addasync.yaml"

// Version is the running tool version, compared against Config.Requires.
// Overridden at build time with -ldflags "-X .../internal/config.Version=vX.Y.Z".
var Version = "v0.3.0"

// Config is the project configuration
type Config struct {
	Attribute   string       `yaml:"attribute" validate:"required,swift_identifier"`
	Extensions  []string     `yaml:"extensions" validate:"required,min=1,dive,startswith=."`
	Exclude     []string     `yaml:"exclude"`
	Indent      int          `yaml:"indent" validate:"min=1,max=8"`
	Guard       string       `yaml:"guard" validate:"oneof=flag lock"`
	Markers     bool         `yaml:"markers"`
	Concurrency int          `yaml:"concurrency" validate:"min=1,max=256"`
	Requires    string       `yaml:"requires" validate:"omitempty,semver_range"`
	Server      ServerConfig `yaml:"server"`
	Watch       WatchConfig  `yaml:"watch"`
}

// ServerConfig configures the HTTP expansion service
type ServerConfig struct {
	Addr      string `yaml:"addr" validate:"required,hostname_port"`
	Framework string `yaml:"framework" validate:"oneof=gin echo fiber"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" validate:"min=0,max=1m"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Attribute:   "AddAsync",
		Extensions:  []string{".swift"},
		Indent:      4,
		Guard:       "flag",
		Markers:     true,
		Concurrency: 8,
		Server: ServerConfig{
			Addr:      "127.0.0.1:8787",
			Framework: "gin",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// IndentUnit returns the indent as a string of spaces
func (c *Config) IndentUnit() string {
	return strings.Repeat(" ", c.Indent)
}

// Load reads path on top of the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "read", err)
	}
	return Parse(data, path)
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapConfigurationError(source, "decode", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads dir/.addasync.yaml, falling back to Default when absent
func LoadOrDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks field constraints and the required tool version
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			all := errors.NewMultipleErrors()
			for _, fe := range fieldErrs {
				all.Add(errors.ConfigurationError("%s", describe(fe)))
			}
			return all
		}
		return errors.WrapConfigurationError("config", "validate", err)
	}

	if c.Requires != "" && !Satisfies(Version, c.Requires) {
		return errors.ConfigurationError("configuration requires addasync %s, running %s", c.Requires, Version).
			WithSuggestion("Upgrade addasync or relax the requires field")
	}
	return nil
}

// Satisfies reports whether version meets a constraint of the form ">=v1.2.0",
// "<v2" or a bare version meaning ">="
func Satisfies(version, constraint string) bool {
	op, want := splitConstraint(constraint)
	cmp := semver.Compare(semver.Canonical(version), semver.Canonical(want))
	switch op {
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case "=", "==":
		return cmp == 0
	default:
		return cmp >= 0
	}
}

func splitConstraint(constraint string) (string, string) {
	constraint = strings.TrimSpace(constraint)
	for _, op := range []string{">=", "<=", "==", ">", "<", "="} {
		if strings.HasPrefix(constraint, op) {
			return op, normalizeVersion(strings.TrimSpace(constraint[len(op):]))
		}
	}
	return ">=", normalizeVersion(constraint)
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s, got %v", field, map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param(), fe.Value())
	case "swift_identifier":
		return fmt.Sprintf("%s must be a plain identifier without @, got %q", field, fe.Value())
	case "semver_range":
		return fmt.Sprintf("%s must be a version constraint such as >=v0.3.0, got %v", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation (value %v)", field, fe.Tag(), fe.Value())
	}
}
