// Package config loads regasm run configuration from YAML.
package config

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/regasm/translate"
)

var f = translate.From

var (
	ErrLimitNegative = errors.New(f("limit is negative"))
)

// Config is the run configuration.
type Config struct {
	// Verbose enables assembler and cpu logging.
	Verbose bool `yaml:"verbose"`
	// Listing prints the assembled program before running it.
	Listing bool `yaml:"listing"`
	// Tree prints the assembled program as a label tree before running it.
	Tree bool `yaml:"tree"`
	// StackLimit caps the operand stack depth. 0 is unbounded.
	StackLimit int `yaml:"stack_limit"`
	// StepLimit caps the number of executed instructions. 0 is unbounded.
	StepLimit int `yaml:"step_limit"`
	// Locale overrides the message locale, as a BCP 47 tag.
	Locale string `yaml:"locale,omitempty"`
	// Defines are equates installed before assembly.
	Defines map[string]string `yaml:"defines,omitempty"`
}

// Decode reads a configuration document. An empty document yields the
// zero configuration.
func Decode(r io.Reader) (cfg Config, err error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err = dec.Decode(&cfg)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return
	}

	err = cfg.Validate()
	return
}

// Load reads a configuration file.
func Load(path string) (cfg Config, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return Decode(inf)
}

// Validate checks the configuration values.
func (cfg *Config) Validate() (err error) {
	if cfg.StackLimit < 0 || cfg.StepLimit < 0 {
		err = ErrLimitNegative
	}
	return
}
