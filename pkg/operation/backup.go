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
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgbackup/pkg/discovery"
	"github.com/walteh/cfgbackup/pkg/log"
	"github.com/walteh/cfgbackup/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// maxListed caps how many packages are echoed to the console.
const maxListed = 9

// 📊 Summary is the outcome of a backup run
type Summary struct {
	DryRun    bool
	Discovery *discovery.Result
	Copy      *CopyReport
	Pip       []string
	Cargo     []string
	SyncedAt  time.Time // zero on dry runs
}

// 💾 BackupOperation runs discovery, copy, package listing and the report
type BackupOperation struct {
	BaseOperation
	summary *Summary
}

// 🏭 NewBackupOperation creates a new backup operation
func NewBackupOperation(opts Options) (*BackupOperation, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Errorf("invalid backup options: %w", err)
	}
	return &BackupOperation{
		BaseOperation: NewBaseOperation(opts),
	}, nil
}

// Summary returns the result of the last Execute, or nil.
func (op *BackupOperation) Summary() *Summary {
	return op.summary
}

// 🏃 Execute runs the backup
func (op *BackupOperation) Execute(ctx context.Context) error {
	console := log.FromContext(ctx)
	logger := zerolog.Ctx(ctx)

	sum := &Summary{DryRun: op.DryRun, Copy: &CopyReport{}}
	op.summary = sum

	console.Header("backing up configs")
	console.Infof("Saving in %s", op.Destination)
	if op.DryRun {
		console.Info("Dry run: nothing will be written")
	}

	sum.Discovery = discovery.DiscoverWith(ctx, op.Registry, op.Probe)
	for _, found := range sum.Discovery.Entries() {
		console.Infof("Found config for %s", found.ID)
	}
	if sum.Discovery.Len() == 0 {
		console.Warning("No application configs found")
	}

	var mgrOpts []status.Option
	if op.Progress != nil {
		mgrOpts = append(mgrOpts, status.WithProgress(op.Progress))
	}
	mgr := status.New(op.Destination, logger, mgrOpts...)

	if !op.DryRun {
		console.LogNewline()
		copier := NewCopier(mgr, op.Exclude)
		report, err := copier.CopyConfigs(ctx, sum.Discovery)
		sum.Copy = report
		if err != nil {
			return errors.Errorf("copying configs: %w", err)
		}

		if op.Fonts {
			report, err = copier.CopyFonts(ctx, op.FontsDir)
			sum.Copy = report
			if err != nil {
				return errors.Errorf("copying fonts: %w", err)
			}
			if report.Fonts {
				console.Infof("Fonts have been copied to %s", mgr.AbsPath(FontsDir))
			}
		}
	} else if op.Fonts {
		if _, err := os.Stat(op.FontsDir); err == nil {
			console.Infof("Fonts found at %s", op.FontsDir)
		} else {
			console.Warningf("No fonts found at %s", op.FontsDir)
		}
	}

	if op.Cargo {
		sum.Cargo = op.listPackages(ctx, "cargo binaries", op.Lister.ListCargo)
	}
	if op.Pip {
		sum.Pip = op.listPackages(ctx, "pip packages", op.Lister.ListPip)
	}

	if op.DryRun {
		console.Success("Dry run complete, no files were written")
		return nil
	}

	if op.Pip {
		if err := op.writeList(ctx, mgr, status.PipListFile, sum.Pip); err != nil {
			return err
		}
	}
	if op.Cargo {
		if err := op.writeList(ctx, mgr, status.CargoListFile, sum.Cargo); err != nil {
			return err
		}
	}

	sum.SyncedAt = op.Clock()
	if err := mgr.WriteReport(ctx, sum.SyncedAt); err != nil {
		return errors.Errorf("writing report: %w", err)
	}
	op.logTracked(ctx, mgr, status.ReportFile, "report")

	console.LogNewline()
	console.Successf("All files have been successfully copied: %s, %s, %s skipped",
		countOf(len(sum.Copy.Apps), "app"),
		countOf(len(sum.Copy.Files), "file"),
		countOf(len(sum.Copy.Skipped), "path"))
	return nil
}

// listPackages runs one package manager; failures only warn.
func (op *BackupOperation) listPackages(ctx context.Context, what string, list func(context.Context) ([]string, error)) []string {
	console := log.FromContext(ctx)

	pkgs, err := list(ctx)
	if err != nil {
		console.Warningf("Could not list %s: %v", what, err)
		return []string{}
	}

	console.Infof("Following %s are installed:", what)
	for i, p := range pkgs {
		if i == maxListed {
			console.Item(fmt.Sprintf("Plus %d more...", len(pkgs)-maxListed))
			break
		}
		console.Item(p)
	}
	return pkgs
}

func (op *BackupOperation) writeList(ctx context.Context, mgr *status.Manager, name string, pkgs []string) error {
	if err := mgr.WritePackageList(ctx, name, pkgs); err != nil {
		return errors.Errorf("writing %s: %w", name, err)
	}
	op.logTracked(ctx, mgr, name, "list")
	return nil
}

// logTracked echoes the last tracked entry for name to the console.
func (op *BackupOperation) logTracked(ctx context.Context, mgr *status.Manager, name, kind string) {
	files := mgr.ListFiles(ctx)
	for i := len(files) - 1; i >= 0; i-- {
		if files[i].Path != name {
			continue
		}
		log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
			Path:       name,
			Type:       kind,
			Status:     files[i].Status.String(),
			IsNew:      files[i].Status == status.StatusNew,
			IsModified: files[i].Status == status.StatusModified,
		})
		return
	}
}

// Backup runs a backup with opts and returns its summary.
func Backup(ctx context.Context, opts Options) (*Summary, error) {
	op, err := NewBackupOperation(opts)
	if err != nil {
		return nil, err
	}
	err = op.Execute(ctx)
	return op.Summary(), err
}

func countOf(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
