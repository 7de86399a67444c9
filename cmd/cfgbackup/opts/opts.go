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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/walteh/cfgbackup/pkg/config"
	"github.com/walteh/cfgbackup/pkg/operation"
	"github.com/walteh/cfgbackup/pkg/packages"
	"github.com/walteh/cfgbackup/pkg/registry"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Flags
	ConfigFile  string
	Debug       bool
	Destination string
	Fonts       bool
	Pip         bool
	Cargo       bool
	DryRun      bool

	Stdout io.Writer
	Stderr io.Writer
	// Progress is set to Stdout when it is a terminal
	Progress io.Writer

	// Overrides for tests; zero values use the host
	Cwd    string
	Dirs   *registry.Dirs
	Lister operation.PackageLister
}

// HostDirs returns the directories the registry is expanded against.
func (o *RootOpts) HostDirs() registry.Dirs {
	if o.Dirs != nil {
		return *o.Dirs
	}
	return registry.HostDirs()
}

func (o *RootOpts) workingDir() (string, error) {
	if o.Cwd != "" {
		return o.Cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

// 🔧 Settings loads the settings file and overlays every flag that was set
// explicitly on the command line.
func (o *RootOpts) Settings(ctx context.Context, flags *pflag.FlagSet) (*config.Settings, error) {
	cwd, err := o.workingDir()
	if err != nil {
		return nil, err
	}

	var s *config.Settings
	if o.ConfigFile != "" {
		s, err = config.Load(ctx, o.ConfigFile)
	} else {
		s, err = config.LoadDefault(ctx, cwd)
	}
	if err != nil {
		return nil, errors.Errorf("loading settings: %w", err)
	}

	if flags.Changed("path") {
		s.Destination = o.Destination
	}
	if flags.Changed("fonts") {
		s.Fonts = o.Fonts
	}
	if flags.Changed("pip") {
		s.Pip = o.Pip
	}
	if flags.Changed("cargo") {
		s.Cargo = o.Cargo
	}
	if flags.Changed("dry-run") {
		s.DryRun = o.DryRun
	}

	zerolog.Ctx(ctx).Debug().Str("settings", s.String()).Msg("effective settings")
	return s, nil
}

// 🎯 BackupOptions resolves the destination and builds the options for a run
func (o *RootOpts) BackupOptions(ctx context.Context, flags *pflag.FlagSet) (operation.Options, error) {
	s, err := o.Settings(ctx, flags)
	if err != nil {
		return operation.Options{}, err
	}

	cwd, err := o.workingDir()
	if err != nil {
		return operation.Options{}, err
	}

	dirs := o.HostDirs()
	dest, err := config.ResolveDestination(s.Destination, cwd, dirs.Home)
	if err != nil {
		return operation.Options{}, err
	}

	lister := o.Lister
	if lister == nil {
		lister = packages.NewLister(packages.NewExecRunner())
	}

	return operation.Options{
		Registry:    registry.Default(dirs),
		Destination: dest,
		FontsDir:    dirs.FontsDir(),
		Fonts:       s.Fonts,
		Pip:         s.Pip,
		Cargo:       s.Cargo,
		DryRun:      s.DryRun,
		Exclude:     s.Exclude,
		Lister:      lister,
		Progress:    o.Progress,
	}, nil
}
