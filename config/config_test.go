package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	doc := strings.Join([]string{
		"verbose: true",
		"listing: true",
		"stack_limit: 64",
		"step_limit: 1000",
		"locale: fr-FR",
		"defines:",
		"  SIZE: \"10\"",
		"  counter: a",
	}, "\n")

	cfg, err := Decode(strings.NewReader(doc))
	assert.NoError(err)
	assert.True(cfg.Verbose)
	assert.True(cfg.Listing)
	assert.False(cfg.Tree)
	assert.Equal(64, cfg.StackLimit)
	assert.Equal(1000, cfg.StepLimit)
	assert.Equal("fr-FR", cfg.Locale)
	assert.Equal(map[string]string{"SIZE": "10", "counter": "a"}, cfg.Defines)
}

func TestDecode_Empty(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Decode(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(Config{}, cfg)
}

func TestDecode_UnknownField(t *testing.T) {
	assert := assert.New(t)

	_, err := Decode(strings.NewReader("stack_size: 3\n"))
	assert.Error(err)
}

func TestDecode_NegativeLimit(t *testing.T) {
	assert := assert.New(t)

	_, err := Decode(strings.NewReader("step_limit: -1\n"))
	assert.ErrorIs(err, ErrLimitNegative)

	_, err = Decode(strings.NewReader("stack_limit: -4\n"))
	assert.ErrorIs(err, ErrLimitNegative)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "regasm.yaml")
	err := os.WriteFile(path, []byte("tree: true\nstack_limit: 8\n"), 0o644)
	assert.NoError(err)

	cfg, err := Load(path)
	assert.NoError(err)
	assert.True(cfg.Tree)
	assert.Equal(8, cfg.StackLimit)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(err, os.ErrNotExist)
}
