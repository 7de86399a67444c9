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

package operation

import (
	"context"
	"io"
	"time"

	"github.com/walteh/cfgbackup/pkg/discovery"
	"github.com/walteh/cfgbackup/pkg/registry"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work the runner can execute
type Operation interface {
	Execute(ctx context.Context) error
}

// 📦 PackageLister lists installed pip and cargo packages
type PackageLister interface {
	ListPip(ctx context.Context) ([]string, error)
	ListCargo(ctx context.Context) ([]string, error)
}

// 🔧 Options contains configuration for a backup run
type Options struct {
	// Registry is the application table to discover
	Registry *registry.Registry
	// Destination is the backup root; files go under Destination/configs
	Destination string
	// FontsDir is copied to configs/fonts when Fonts is set
	FontsDir string

	Fonts  bool
	Pip    bool
	Cargo  bool
	DryRun bool

	// Exclude holds doublestar patterns for files to leave out
	Exclude []string

	// Lister runs the package managers; required when Pip or Cargo is set
	Lister PackageLister
	// Probe overrides the existence check used by discovery
	Probe discovery.Prober
	// Clock overrides time.Now for report.txt
	Clock func() time.Time
	// Progress receives a progress bar while configs are copied; nil disables it
	Progress io.Writer
}

// 🔍 Validate checks that the options can drive a run
func (o *Options) Validate() error {
	if o.Registry == nil {
		return errors.Errorf("registry is required")
	}
	if o.Destination == "" {
		return errors.Errorf("destination is required")
	}
	if o.Fonts && o.FontsDir == "" {
		return errors.Errorf("fonts directory is required when backing up fonts")
	}
	if (o.Pip || o.Cargo) && o.Lister == nil {
		return errors.Errorf("package lister is required when listing pip or cargo packages")
	}
	return nil
}

// 🧱 BaseOperation carries the options shared by all operations
type BaseOperation struct {
	Options
}

// 🏗️ NewBaseOperation fills in defaults
func NewBaseOperation(opts Options) BaseOperation {
	if opts.Probe == nil {
		opts.Probe = discovery.StatProber
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return BaseOperation{Options: opts}
}
