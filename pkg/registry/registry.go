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

// Package registry holds the table of applications whose configuration
// cfgbackup knows how to find.
package registry

import (
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
	"gitlab.com/tozd/go/errors"
)

// 📦 Entry maps one application identifier to its candidate paths
type Entry struct {
	ID         string   // Application identifier (e.g. "fish")
	Candidates []string // Absolute candidate paths, in probe order
}

// 📚 Registry is an immutable, ordered set of entries
type Registry struct {
	entries []Entry
}

// 🏭 New builds a registry from the given entries, keeping their order
func New(entries ...Entry) (*Registry, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, errors.Errorf("registry entry has empty identifier")
		}
		if _, ok := seen[e.ID]; ok {
			return nil, errors.Errorf("duplicate registry identifier %q", e.ID)
		}
		seen[e.ID] = struct{}{}
		out = append(out, Entry{ID: e.ID, Candidates: append([]string(nil), e.Candidates...)})
	}
	return &Registry{entries: out}, nil
}

// Entries returns a copy of the entries in registry order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = Entry{ID: e.ID, Candidates: append([]string(nil), e.Candidates...)}
	}
	return out
}

// IDs returns the identifiers in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ID
	}
	return ids
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// 🏠 Dirs are the base directories candidate paths are expanded against
type Dirs struct {
	Home         string // User home directory
	ConfigHome   string // XDG config home, usually ~/.config
	SystemConfig string // System wide config dir, /etc/xdg; empty drops those candidates
}

// HostDirs resolves Dirs for the invoking user.
func HostDirs() Dirs {
	return Dirs{
		Home:         xdg.Home,
		ConfigHome:   xdg.ConfigHome,
		SystemConfig: "/etc/xdg",
	}
}

// FontsDir returns the well-known fonts directory under the home directory.
func (d Dirs) FontsDir() string {
	return filepath.Join(d.Home, ".fonts")
}

// 🗺️ Default returns the built-in application table expanded against dirs
func Default(d Dirs) *Registry {
	home := func(p ...string) string { return filepath.Join(append([]string{d.Home}, p...)...) }
	conf := func(p ...string) string { return filepath.Join(append([]string{d.ConfigHome}, p...)...) }
	system := func(p ...string) []string {
		if d.SystemConfig == "" {
			return nil
		}
		return []string{filepath.Join(append([]string{d.SystemConfig}, p...)...)}
	}

	// entries are static and unique, New cannot fail here
	r, _ := New(
		Entry{ID: "helix", Candidates: []string{
			conf("helix", "config.toml"),
			conf("helix", "init.lua"),
			conf("helix", "languages.toml"),
		}},
		Entry{ID: "alacritty", Candidates: []string{
			home("alacritty.yml"),
			conf("alacritty", "alacritty.yml"),
			home(".alacritty.yml"),
			conf("alacritty", "alacritty.toml"),
		}},
		Entry{ID: "fish", Candidates: []string{
			conf("fish", "conf.d"),
			conf("fish", "config.fish"),
			conf("fish", "functions"),
		}},
		Entry{ID: "neovim", Candidates: slices.Concat(
			[]string{home("nvim", "init.vim"), home("nvim", "sysinit.vim")},
			system("nvim", "sysinit.vim"),
			[]string{conf("nvim", "init.vim"), conf("nvim", "init.lua")},
		)},
		Entry{ID: "tmux", Candidates: []string{
			home(".tmux.conf"),
			conf("tmux", "tmux.conf"),
		}},
		Entry{ID: "codium", Candidates: []string{
			conf("VSCodium", "User", "settings.json"),
		}},
		Entry{ID: "vscode", Candidates: []string{
			conf("Code", "User", "settings.json"),
		}},
	)
	return r
}
