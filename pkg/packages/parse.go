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

package packages

import (
	"strings"
)

// pipHeaderLines is the "Package Version" title plus the dashed rule.
const pipHeaderLines = 2

// ParsePip extracts package names from `pip list` output.
func ParsePip(out string) []string {
	lines := splitLines(out)
	if len(lines) <= pipHeaderLines {
		return []string{}
	}

	names := []string{}
	for _, line := range lines[pipHeaderLines:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}

// ParseCargo extracts crate names from `cargo install --list` output.
//
// Crate lines look like "ripgrep v13.0.0:" and the binaries they install
// follow on indented lines. The name is everything before the version token.
func ParseCargo(out string) []string {
	names := []string{}
	for _, line := range splitLines(out) {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		if name, ok := cargoName(line); ok {
			names = append(names, name)
		}
	}
	return names
}

func cargoName(line string) (string, bool) {
	if !strings.Contains(line, "v") {
		return "", false
	}

	fields := strings.Fields(line)
	for i, f := range fields {
		if i == 0 || !strings.HasPrefix(f, "v") {
			continue
		}
		return strings.Join(fields[:i], " "), true
	}

	// no separate version token, fall back to the first 'v'
	name := strings.TrimSpace(line[:strings.Index(line, "v")])
	return name, name != ""
}

func splitLines(out string) []string {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	return strings.Split(strings.TrimRight(out, "\n"), "\n")
}
