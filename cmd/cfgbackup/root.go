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

package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/walteh/cfgbackup/cmd/cfgbackup/commands"
	"github.com/walteh/cfgbackup/cmd/cfgbackup/opts"
	"github.com/walteh/cfgbackup/pkg/log"
)

// newRootCmd creates the root command; running it without a subcommand
// performs a backup.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cfgbackup",
		Short: "Back up application configs, fonts and installed packages",
		Long: `cfgbackup copies the configuration of known applications (helix,
alacritty, fish, neovim, tmux, VSCodium, VS Code) into <path>/configs/,
optionally with ~/.fonts and lists of installed pip and cargo packages, and
records when the backup was made in configs/report.txt.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context(), o))
		},
		RunE: commands.RunBackup(o),
	}

	addRootFlags(cmd, o)
	commands.AddBackupFlags(cmd, o)
	cmd.Flags().SetNormalizeFunc(aliasFlags)

	cmd.AddCommand(
		commands.NewDiscoverCmd(o),
		commands.NewStatusCmd(o),
		newVersionCmd(o.Stdout),
	)

	cmd.SetOut(o.Stdout)
	cmd.SetErr(o.Stderr)
	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVar(&o.ConfigFile, "config", "", "settings file (default: ./.cfgbackup.yaml if present)")
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false, "enable debug logging")
}

// aliasFlags maps --dummy onto --dry-run.
func aliasFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "dummy" {
		name = "dry-run"
	}
	return pflag.NormalizedName(name)
}

// setupLogging puts a zerolog logger and the console logger into ctx
func setupLogging(ctx context.Context, o *opts.RootOpts) context.Context {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}

	var w io.Writer = o.Stderr
	if isTerminal(o.Stderr) {
		w = zerolog.ConsoleWriter{Out: o.Stderr, TimeFormat: time.Kitchen}
	}
	if isTerminal(o.Stdout) {
		o.Progress = o.Stdout
	} else {
		color.NoColor = true
	}

	zlog := zerolog.New(w).Level(level).With().Timestamp().Logger()
	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.NewWithZerolog(o.Stdout, zlog))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
