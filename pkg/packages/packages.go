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

// Package packages lists packages installed through pip and cargo.
package packages

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrToolUnavailable is returned when a package manager is missing or fails.
var ErrToolUnavailable = errors.Base("package manager unavailable")

// 🔧 Command is one way of invoking a package manager
type Command struct {
	Name string
	Args []string
}

var (
	pipCommands = []Command{
		{Name: "pip", Args: []string{"list"}},
		{Name: "pip3", Args: []string{"list"}},
	}
	cargoCommands = []Command{
		{Name: "cargo", Args: []string{"install", "--list"}},
	}
)

// 📦 Lister runs package managers and parses their listings
type Lister struct {
	runner CommandRunner
}

// 🏭 NewLister creates a lister backed by runner
func NewLister(runner CommandRunner) *Lister {
	return &Lister{runner: runner}
}

// ListPip returns the names of installed pip packages.
func (l *Lister) ListPip(ctx context.Context) ([]string, error) {
	out, err := l.run(ctx, "pip", pipCommands)
	if err != nil {
		return []string{}, err
	}
	return ParsePip(out), nil
}

// ListCargo returns the names of binaries installed with cargo install.
func (l *Lister) ListCargo(ctx context.Context) ([]string, error) {
	out, err := l.run(ctx, "cargo", cargoCommands)
	if err != nil {
		return []string{}, err
	}
	return ParseCargo(out), nil
}

// run tries each command in order and returns the output of the first one
// that is installed. A failing installed command is not retried with the next.
func (l *Lister) run(ctx context.Context, tool string, cmds []Command) (string, error) {
	logger := zerolog.Ctx(ctx)

	for _, c := range cmds {
		if !l.runner.Available(c.Name) {
			logger.Debug().Str("command", c.Name).Msg("command not on PATH")
			continue
		}

		logger.Debug().Str("command", c.Name).Strs("args", c.Args).Msg("listing packages")
		out, err := l.runner.Run(ctx, c.Name, c.Args...)
		if err != nil {
			return "", errors.Errorf("running %s: %s: %w", c.Name, err.Error(), ErrToolUnavailable)
		}
		return string(out), nil
	}

	return "", errors.Errorf("%s: no command found on PATH: %w", tool, ErrToolUnavailable)
}
