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

package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		entries     []Entry
		wantErr     bool
		errContains string
		wantIDs     []string
	}{
		{
			name: "keeps_order",
			entries: []Entry{
				{ID: "zeta", Candidates: []string{"/a"}},
				{ID: "alpha", Candidates: []string{"/b"}},
			},
			wantIDs: []string{"zeta", "alpha"},
		},
		{
			name: "duplicate_identifier",
			entries: []Entry{
				{ID: "fish"},
				{ID: "fish"},
			},
			wantErr:     true,
			errContains: "duplicate",
		},
		{
			name:        "empty_identifier",
			entries:     []Entry{{ID: ""}},
			wantErr:     true,
			errContains: "empty identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.entries...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, r.IDs())
		})
	}
}

func TestEntriesAreCopies(t *testing.T) {
	r, err := New(Entry{ID: "tmux", Candidates: []string{"/one", "/two"}})
	require.NoError(t, err)

	entries := r.Entries()
	entries[0].Candidates[0] = "/mutated"

	assert.Equal(t, "/one", r.Entries()[0].Candidates[0], "registry must not be mutable through Entries")
}

func TestDefault(t *testing.T) {
	dirs := Dirs{Home: "/home/test", ConfigHome: "/home/test/.config", SystemConfig: "/etc/xdg"}
	r := Default(dirs)

	assert.Equal(t, []string{"helix", "alacritty", "fish", "neovim", "tmux", "codium", "vscode"}, r.IDs())

	byID := map[string][]string{}
	for _, e := range r.Entries() {
		byID[e.ID] = e.Candidates
		for _, c := range e.Candidates {
			assert.True(t, filepath.IsAbs(c), "candidate %s should be absolute", c)
		}
	}

	assert.Equal(t, []string{
		"/home/test/.config/fish/conf.d",
		"/home/test/.config/fish/config.fish",
		"/home/test/.config/fish/functions",
	}, byID["fish"])
	assert.Equal(t, "/home/test/.tmux.conf", byID["tmux"][0])
	assert.Contains(t, byID["neovim"], "/etc/xdg/nvim/sysinit.vim")
	assert.Equal(t, "/home/test/.fonts", dirs.FontsDir())

	dirs.SystemConfig = ""
	for _, e := range Default(dirs).Entries() {
		if e.ID == "neovim" {
			assert.NotContains(t, e.Candidates, "/etc/xdg/nvim/sysinit.vim")
			assert.Len(t, e.Candidates, 4)
		}
	}
}
