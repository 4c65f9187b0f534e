// Package config loads the dissector's settings from a TOML file.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rigado/dissect"
	"github.com/rigado/dissect/render"
	"github.com/sirupsen/logrus"
)

// Output formats.
const (
	FormatDocument  = "document"
	FormatValues    = "values"
	FormatLocations = "locations"
)

// Config holds the settings of one dissector run.
type Config struct {
	LogLevel string
	Trace    bool
	Format   string
	Indent   bool
}

type fileConfig struct {
	LogLevel string `toml:"log_level"`
	Trace    bool   `toml:"trace"`
	Format   string `toml:"format"`
	Indent   bool   `toml:"indent"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		LogLevel: logrus.InfoLevel.String(),
		Format:   FormatDocument,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrapf(err, "can't load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("trace") {
		cfg.Trace = raw.Trace
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks the log level and the output format.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	switch c.Format {
	case FormatDocument, FormatValues, FormatLocations:
		return nil
	default:
		return errors.Errorf("format: unknown format %q", c.Format)
	}
}

// Options returns the decoder and session options the settings call for.
func (c Config) Options() []dissect.Option {
	return []dissect.Option{dissect.OptTrace(c.Trace)}
}

// RenderOptions returns the output options the settings call for.
func (c Config) RenderOptions() []render.Option {
	return []render.Option{render.Indent(c.Indent)}
}
