// Package config loads the skosvocab YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/skos-go/rdf"
)

// Config is the tool configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Parse  ParseConfig  `yaml:"parse"`
	Output OutputConfig `yaml:"output"`
}

// LogConfig selects log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ParseConfig holds RDF parser limits. Negative values disable a limit.
type ParseConfig struct {
	MaxInputBytes int64  `yaml:"max_input_bytes"`
	MaxDepth      int    `yaml:"max_depth"`
	BaseIRI       string `yaml:"base_iri"`
}

// OutputConfig holds defaults for listing commands.
type OutputConfig struct {
	Language string `yaml:"language"` // label language shown by `subjects`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Parse: ParseConfig{
			MaxInputBytes: rdf.DefaultMaxInputBytes,
			MaxDepth:      rdf.DefaultMaxDepth,
		},
		Output: OutputConfig{
			Language: "en",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. ${VAR} references are expanded from the environment before
// decoding.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if strings.TrimSpace(c.Output.Language) == "" {
		errs = append(errs, errors.New("output.language: must not be empty"))
	}
	return errors.Join(errs...)
}

// DecodeOptions converts the parse section for the RDF decoders.
func (c *Config) DecodeOptions() rdf.DecodeOptions {
	return rdf.DecodeOptions{
		MaxInputBytes: c.Parse.MaxInputBytes,
		MaxDepth:      c.Parse.MaxDepth,
		BaseIRI:       c.Parse.BaseIRI,
	}
}
