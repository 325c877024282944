package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override file
// settings, e.g. DISPLAYMAP_TAB_WIDTH=8.
const EnvPrefix = "DISPLAYMAP_"

// Load reads settings from path, layering defaults, the file, and
// environment overrides in that order. The format is chosen by file
// extension: .toml, .yaml, or .yml. A missing file is not an error;
// defaults plus environment overrides are returned.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Fall through to env overrides.
		case err != nil:
			return s, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := decode(path, data, &s); err != nil {
				return s, err
			}
		}
	}

	if err := applyEnv(&s, os.LookupEnv); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// decode unmarshals data into s based on the file extension.
func decode(path string, data []byte, s *Settings) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, s); err != nil {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, s); err != nil {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// applyEnv overrides settings from DISPLAYMAP_* variables. lookup is
// injected so tests can run without touching the process environment.
func applyEnv(s *Settings, lookup func(string) (string, bool)) error {
	for _, ov := range []struct {
		key   string
		apply func(string) error
	}{
		{"TAB_WIDTH", func(v string) error { return parseWidth(v, &s.TabWidth) }},
		{"WRAP_WIDTH", func(v string) error { return parseWidth(v, &s.WrapWidth) }},
		{"THEME_TEXT_FOREGROUND", func(v string) error { s.Theme.Text.Foreground = v; return nil }},
		{"THEME_TEXT_BACKGROUND", func(v string) error { s.Theme.Text.Background = v; return nil }},
		{"THEME_BLOCK_FOREGROUND", func(v string) error { s.Theme.BlockText.Foreground = v; return nil }},
		{"THEME_BLOCK_BACKGROUND", func(v string) error { s.Theme.BlockText.Background = v; return nil }},
		{"THEME_FOLD_FOREGROUND", func(v string) error { s.Theme.FoldPlaceholder.Foreground = v; return nil }},
	} {
		v, ok := lookup(EnvPrefix + ov.key)
		if !ok {
			continue
		}
		if err := ov.apply(v); err != nil {
			return &ValidationError{Field: EnvPrefix + ov.key, Value: v, Message: err.Error()}
		}
	}
	return nil
}

func parseWidth(v string, dst *uint32) error {
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fmt.Errorf("not a valid width: %q", v)
	}
	*dst = uint32(n)
	return nil
}
