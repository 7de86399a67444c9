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

//go:build unix

package operation_test

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cfgbackup/pkg/operation"
	"github.com/walteh/cfgbackup/pkg/registry"
	"github.com/walteh/cfgbackup/pkg/status"
)

func TestCopyConfigsSkipsNamedPipes(t *testing.T) {
	env := newTestEnv(t)

	dir := filepath.Join(env.home, ".config/fish")
	env.write(t, ".config/fish/config.fish", "set -x EDITOR hx\n")
	require.NoError(t, syscall.Mkfifo(filepath.Join(dir, "fishd.pipe"), 0644))
	pipe := filepath.Join(env.home, ".tmux.fifo")
	require.NoError(t, syscall.Mkfifo(pipe, 0644))

	res := env.discover(t,
		registry.Entry{ID: "fish", Candidates: []string{dir}},
		registry.Entry{ID: "tmux", Candidates: []string{pipe}},
	)

	type result struct {
		report *operation.CopyReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := operation.NewCopier(status.New(env.dest, env.logger), nil).CopyConfigs(env.ctx, res)
		done <- result{report, err}
	}()

	var got result
	select {
	case got = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("copy blocked on a named pipe")
	}
	require.NoError(t, got.err)
	assert.Empty(t, got.report.Skipped)

	assert.Equal(t, map[string]string{"fish/fish/config.fish": "set -x EDITOR hx\n"}, tree(t, env.configs()))
	assert.Contains(t, env.console.String(), "Skipping special file: "+pipe)
	assert.Contains(t, env.console.String(), "Skipping special file: "+filepath.Join(dir, "fishd.pipe"))
}
