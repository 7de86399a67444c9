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

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show when the destination was last backed up",
		Long: `Status reads configs/report.txt from the destination and lists which
discovered applications already have a backup directory. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)

			options, err := o.BackupOptions(ctx, cmd.Flags())
			if err != nil {
				return err
			}

			op, err := operation.NewStatusOperation(options)
			if err != nil {
				return err
			}
			if err := op.Execute(ctx); err != nil {
				return errors.Errorf("checking status: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&o.Destination, "path", "p", "", "backup destination (default: current directory)")
	return cmd
}
