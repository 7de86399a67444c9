// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is loaded from the working directory when --config is not given.
const DefaultFile = ".cfgbackup.yaml"

var (
	// ErrInvalidDestination is returned when the backup root cannot be used.
	ErrInvalidDestination = errors.Base("invalid destination")
	// ErrUnsupportedFormat is returned when no parser handles a settings file.
	ErrUnsupportedFormat = errors.Base("unsupported settings format")
)

// 🔌 Parser is the interface for settings parsers
type Parser interface {
	// 📝 Parse parses the settings from bytes
	Parse(ctx context.Context, data []byte) (*Settings, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Settings holds the defaults for a backup run. Every field mirrors a
// command line flag; flags that are set explicitly win.
type Settings struct {
	Destination string   `json:"destination,omitempty" yaml:"destination,omitempty" toml:"destination,omitempty" hcl:"destination,optional"`
	Fonts       bool     `json:"fonts,omitempty" yaml:"fonts,omitempty" toml:"fonts,omitempty" hcl:"fonts,optional"`
	Pip         bool     `json:"pip,omitempty" yaml:"pip,omitempty" toml:"pip,omitempty" hcl:"pip,optional"`
	Cargo       bool     `json:"cargo,omitempty" yaml:"cargo,omitempty" toml:"cargo,omitempty" hcl:"cargo,optional"`
	DryRun      bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty" toml:"dry_run,omitempty" hcl:"dry_run,optional"`
	Exclude     []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" hcl:"exclude,optional"`
}

// 🎯 Load reads and validates the settings file at path
func Load(ctx context.Context, path string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading settings")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}

	s, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	logger.Debug().Str("settings", s.String()).Msg("settings loaded")
	return s, nil
}

// 🔍 LoadDefault loads DefaultFile from dir if it exists. A missing file
// yields empty settings.
func LoadDefault(ctx context.Context, dir string) (*Settings, error) {
	path := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, errors.Errorf("checking %s: %w", path, err)
	}
	return Load(ctx, path)
}

// 🔍 Validate checks the exclude patterns
func (s *Settings) Validate() error {
	for _, pattern := range s.Exclude {
		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// 📝 String returns a string representation of the settings
func (s *Settings) String() string {
	var flags []string
	for _, f := range []struct {
		name string
		on   bool
	}{{"fonts", s.Fonts}, {"pip", s.Pip}, {"cargo", s.Cargo}, {"dry-run", s.DryRun}} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	dest := s.Destination
	if dest == "" {
		dest = "."
	}
	return fmt.Sprintf("%s [%s] exclude=%d", dest, strings.Join(flags, ","), len(s.Exclude))
}

// 📂 ExpandHome replaces a leading ~ with home.
func ExpandHome(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	}
	return path
}

// 🎯 ResolveDestination turns the raw destination into an absolute path to an
// existing directory. An empty destination means cwd.
func ResolveDestination(raw, cwd, home string) (string, error) {
	if raw == "" {
		raw = cwd
	}
	path := ExpandHome(raw, home)
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Errorf("%s does not exist: %w", path, ErrInvalidDestination)
		}
		return "", errors.Errorf("%s: %s: %w", path, err.Error(), ErrInvalidDestination)
	}
	if !info.IsDir() {
		return "", errors.Errorf("%s is not a directory: %w", path, ErrInvalidDestination)
	}
	return path, nil
}
