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
	"io/fs"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgbackup/pkg/discovery"
	"github.com/walteh/cfgbackup/pkg/log"
	"github.com/walteh/cfgbackup/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📊 BackupStatus describes an existing destination
type BackupStatus struct {
	SyncedAt time.Time // Zero when report.txt is absent
	Backed   []string  // Discovered identifiers with a directory under configs/
	Missing  []string  // Discovered identifiers without one
}

// NeedsBackup reports whether a backup has never run or misses an application.
func (s *BackupStatus) NeedsBackup() bool {
	return s.SyncedAt.IsZero() || len(s.Missing) > 0
}

// 🔍 StatusOperation reads report.txt and compares discovery with configs/
type StatusOperation struct {
	BaseOperation
	result *BackupStatus
}

// 🏭 NewStatusOperation creates a new status operation
func NewStatusOperation(opts Options) (*StatusOperation, error) {
	opts.Fonts, opts.Pip, opts.Cargo = false, false, false
	if err := opts.Validate(); err != nil {
		return nil, errors.Errorf("invalid status options: %w", err)
	}
	return &StatusOperation{
		BaseOperation: NewBaseOperation(opts),
	}, nil
}

// Result returns the status found by the last Execute, or nil.
func (o *StatusOperation) Result() *BackupStatus {
	return o.result
}

// 🏃 Execute inspects the destination without writing to it
func (o *StatusOperation) Execute(ctx context.Context) error {
	console := log.FromContext(ctx)
	logger := zerolog.Ctx(ctx)

	res := &BackupStatus{}
	o.result = res
	mgr := status.New(o.Destination, logger)

	console.Header("backup status")

	content, err := mgr.ReadFile(ctx, status.ReportFile)
	switch {
	case err == nil:
		at, err := status.ParseReport(string(content))
		if err != nil {
			return errors.Errorf("reading %s: %w", mgr.AbsPath(status.ReportFile), err)
		}
		res.SyncedAt = at
		console.Infof("Backup last synced at %s", at.Format(time.DateTime))
	case errors.Is(err, fs.ErrNotExist):
		console.Warningf("No backup found in %s", o.Destination)
	default:
		return errors.Errorf("reading report: %w", err)
	}

	found := discovery.DiscoverWith(ctx, o.Registry, o.Probe)
	for _, id := range found.IDs() {
		ok, err := mgr.FileExists(ctx, id)
		if err != nil {
			return errors.Errorf("checking backup of %s: %w", id, err)
		}
		if ok {
			res.Backed = append(res.Backed, id)
			console.Item("✅ " + id)
		} else {
			res.Missing = append(res.Missing, id)
			console.Item("❌ " + id + " (not backed up)")
		}
	}

	logger.Debug().
		Time("synced_at", res.SyncedAt).
		Strs("backed", res.Backed).
		Strs("missing", res.Missing).
		Msg("status computed")

	if res.NeedsBackup() {
		console.Warning("A backup is needed")
	} else {
		console.Success("Backup is up to date with discovered applications")
	}
	return nil
}
