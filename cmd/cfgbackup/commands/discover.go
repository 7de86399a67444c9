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
	"fmt"
	"slices"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cfgbackup/cmd/cfgbackup/opts"
	"github.com/walteh/cfgbackup/pkg/discovery"
	"github.com/walteh/cfgbackup/pkg/registry"
	"gitlab.com/tozd/go/errors"
)

// NewDiscoverCmd creates the discover command
func NewDiscoverCmd(o *opts.RootOpts) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Show which application configs exist on this machine",
		Long: `Discover probes every known configuration path and prints a table.
Nothing is copied or written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "discover").Logger().WithContext(ctx)

			reg := registry.Default(o.HostDirs())
			res := discovery.Discover(ctx, reg)

			table, err := DiscoveryTable(reg, res, all)
			if err != nil {
				return err
			}
			fmt.Fprint(o.Stdout, table)
			fmt.Fprintf(o.Stdout, "\n%d of %d applications found\n", res.Len(), reg.Len())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include candidate paths that do not exist")
	return cmd
}

// 📋 DiscoveryTable renders the discovery result as a table, one row per path
func DiscoveryTable(reg *registry.Registry, res *discovery.Result, all bool) (string, error) {
	data := pterm.TableData{{"APP", "STATUS", "PATH"}}
	for _, entry := range reg.Entries() {
		found := res.Paths(entry.ID)
		for _, candidate := range entry.Candidates {
			exists := slices.Contains(found, candidate)
			switch {
			case exists:
				data = append(data, []string{entry.ID, pterm.FgGreen.Sprint("found"), candidate})
			case all:
				data = append(data, []string{entry.ID, pterm.FgGray.Sprint("missing"), candidate})
			}
		}
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering discovery table: %w", err)
	}
	return out, nil
}
