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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cfgbackup/cmd/cfgbackup/opts"
	"github.com/walteh/cfgbackup/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// AddBackupFlags registers the flags of the default backup command.
func AddBackupFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.Flags().StringVarP(&o.Destination, "path", "p", "", "backup destination (default: current directory)")
	cmd.Flags().BoolVarP(&o.Fonts, "fonts", "f", false, "also back up ~/.fonts")
	cmd.Flags().BoolVar(&o.Pip, "pip", false, "save installed pip packages to pip_pkg.txt")
	cmd.Flags().BoolVarP(&o.Cargo, "cargo", "c", false, "save installed cargo binaries to cargo_pkg.txt")
	cmd.Flags().BoolVarP(&o.DryRun, "dry-run", "d", false, "discover and list without writing anything (alias --dummy)")
}

// 🏃 RunBackup is the RunE of the root command
func RunBackup(o *opts.RootOpts) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctx = zerolog.Ctx(ctx).With().Str("command", "backup").Logger().WithContext(ctx)

		options, err := o.BackupOptions(ctx, cmd.Flags())
		if err != nil {
			return err
		}

		op, err := operation.NewBackupOperation(options)
		if err != nil {
			return err
		}

		if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
			return errors.Errorf("backing up: %w", err)
		}
		return nil
	}
}
