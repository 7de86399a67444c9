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

// Package discovery finds which registered configuration paths exist on
// this machine.
package discovery

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgbackup/pkg/registry"
)

// 🔍 Prober reports whether a path exists
type Prober func(path string) bool

// StatProber treats a path as present when os.Stat succeeds. Symlinks are
// followed; any stat error counts as absent.
func StatProber(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// 📋 Found is the existing subset of one identifier's candidates
type Found struct {
	ID    string
	Paths []string
}

// 📊 Result maps identifiers to the candidates that exist, in registry order.
// Identifiers with nothing found are absent.
type Result struct {
	found []Found
	index map[string]int
}

// Entries returns the found entries in registry order.
func (r *Result) Entries() []Found {
	return r.found
}

// Paths returns the found paths for id, or nil.
func (r *Result) Paths(id string) []string {
	if i, ok := r.index[id]; ok {
		return r.found[i].Paths
	}
	return nil
}

// Has reports whether anything was found for id.
func (r *Result) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// IDs returns the identifiers with at least one found path, in registry order.
func (r *Result) IDs() []string {
	ids := make([]string, 0, len(r.found))
	for _, f := range r.found {
		ids = append(ids, f.ID)
	}
	return ids
}

// Len returns the number of identifiers with at least one found path.
func (r *Result) Len() int {
	return len(r.found)
}

// 🎯 Discover probes every candidate with os.Stat
func Discover(ctx context.Context, reg *registry.Registry) *Result {
	return DiscoverWith(ctx, reg, StatProber)
}

// DiscoverWith probes every candidate with probe and keeps all that exist.
func DiscoverWith(ctx context.Context, reg *registry.Registry, probe Prober) *Result {
	logger := zerolog.Ctx(ctx)

	res := &Result{index: map[string]int{}}
	for _, entry := range reg.Entries() {
		var paths []string
		for _, candidate := range entry.Candidates {
			if !probe(candidate) {
				logger.Debug().Str("app", entry.ID).Str("path", candidate).Msg("candidate not found")
				continue
			}
			logger.Debug().Str("app", entry.ID).Str("path", candidate).Msg("candidate found")
			paths = append(paths, candidate)
		}
		if len(paths) == 0 {
			continue
		}
		res.index[entry.ID] = len(res.found)
		res.found = append(res.found, Found{ID: entry.ID, Paths: paths})
	}

	logger.Debug().Int("apps", res.Len()).Int("registered", reg.Len()).Msg("discovery complete")
	return res
}
