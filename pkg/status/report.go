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

package status

import (
	"context"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

const (
	PipListFile   = "pip_pkg.txt"
	CargoListFile = "cargo_pkg.txt"
	ReportFile    = "report.txt"

	// TimestampLayout renders as YY:MM:DD:HH:MM:SS.
	TimestampLayout = "06:01:02:15:04:05"

	reportHeading = "Backup last synced at"
)

// FormatReport renders the content of report.txt.
func FormatReport(at time.Time) string {
	return reportHeading + "\n" + at.Format(TimestampLayout) + "\n"
}

// ParseReport reads the sync time back from report.txt content.
func ParseReport(content string) (time.Time, error) {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != 2 || lines[0] != reportHeading {
		return time.Time{}, errors.Errorf("malformed report: %q", content)
	}
	at, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(lines[1]), time.Local)
	if err != nil {
		return time.Time{}, errors.Errorf("parsing report timestamp: %w", err)
	}
	return at, nil
}

// 📝 WritePackageList writes one package name per line to name under Root
func (m *Manager) WritePackageList(ctx context.Context, name string, pkgs []string) error {
	var b strings.Builder
	for _, p := range pkgs {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return m.writeTracked(ctx, name, []byte(b.String()))
}

// 🕒 WriteReport records at as the last successful sync time
func (m *Manager) WriteReport(ctx context.Context, at time.Time) error {
	return m.writeTracked(ctx, ReportFile, []byte(FormatReport(at)))
}

func (m *Manager) writeTracked(ctx context.Context, name string, content []byte) error {
	fileStatus := StatusNew
	exists, err := m.FileExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		fileStatus = StatusModified
		if m.SameContent(ctx, name, content) {
			fileStatus = StatusUnchanged
		}
	}

	if err := m.WriteFile(ctx, name, content); err != nil {
		return errors.Errorf("writing %s: %w", name, err)
	}

	m.TrackFile(ctx, FileInfo{
		Path:   name,
		Status: fileStatus,
		Size:   int64(len(content)),
		Mode:   0644,
	})
	return nil
}
