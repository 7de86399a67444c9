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
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/walteh/cfgbackup/cmd/cfgbackup/opts"
)

func main() {
	os.Exit(run(os.Args[1:], &opts.RootOpts{Stdout: os.Stdout, Stderr: os.Stderr}))
}

// run executes the command line and returns the process exit code.
func run(args []string, o *opts.RootOpts) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(o)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(o.Stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}
