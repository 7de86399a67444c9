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
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func newTestManager(t *testing.T) (context.Context, *Manager, string) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	dest := t.TempDir()
	return logger.WithContext(context.Background()), New(dest, &logger), dest
}

func TestManagerRoot(t *testing.T) {
	_, mgr, dest := newTestManager(t)
	assert.Equal(t, filepath.Join(dest, "configs"), mgr.Root())
	assert.Equal(t, filepath.Join(dest, "configs", "fish", "config.fish"), mgr.AbsPath("fish/config.fish"))
}

func TestCopyFile(t *testing.T) {
	tests := []struct {
		name       string
		existing   *string
		wantStatus FileStatus
	}{
		{
			name:       "new_file",
			wantStatus: StatusNew,
		},
		{
			name:       "modified_file",
			existing:   ptr("old content\n"),
			wantStatus: StatusModified,
		},
		{
			name:       "unchanged_file",
			existing:   ptr("set -g mouse on\n"),
			wantStatus: StatusUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, mgr, _ := newTestManager(t)

			src := filepath.Join(t.TempDir(), ".tmux.conf")
			require.NoError(t, os.WriteFile(src, []byte("set -g mouse on\n"), 0600))
			mtime := time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)
			require.NoError(t, os.Chtimes(src, mtime, mtime))

			if tt.existing != nil {
				require.NoError(t, os.MkdirAll(mgr.AbsPath("tmux"), 0755))
				require.NoError(t, os.WriteFile(mgr.AbsPath("tmux/.tmux.conf"), []byte(*tt.existing), 0600))
			}

			got, err := mgr.CopyFile(ctx, src, "tmux/.tmux.conf")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got)

			content, err := os.ReadFile(mgr.AbsPath("tmux/.tmux.conf"))
			require.NoError(t, err)
			assert.Equal(t, "set -g mouse on\n", string(content))

			if tt.wantStatus != StatusUnchanged {
				info, err := os.Stat(mgr.AbsPath("tmux/.tmux.conf"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "mode should be preserved")
				assert.True(t, info.ModTime().Equal(mtime), "mtime should be preserved")
			}

			entries, err := os.ReadDir(mgr.AbsPath("tmux"))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temp files should be left behind")
		})
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	ctx, mgr, _ := newTestManager(t)
	_, err := mgr.CopyFile(ctx, filepath.Join(t.TempDir(), "nope"), "x/nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "missing source should surface as not-exist")
}

func TestWriteReport(t *testing.T) {
	ctx, mgr, _ := newTestManager(t)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

	require.NoError(t, mgr.WriteReport(ctx, at))

	content, err := os.ReadFile(mgr.AbsPath(ReportFile))
	require.NoError(t, err)
	assert.Equal(t, "Backup last synced at\n24:01:02:03:04:05\n", string(content))
	assert.Regexp(t, regexp.MustCompile(`^Backup last synced at\n\d{2}(:\d{2}){5}\n$`), string(content))

	parsed, err := ParseReport(string(content))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))

	// second write of the same report is tracked as unchanged
	require.NoError(t, mgr.WriteReport(ctx, at))
	files := mgr.ListFiles(ctx)
	require.Len(t, files, 2)
	assert.Equal(t, StatusNew, files[0].Status)
	assert.Equal(t, StatusUnchanged, files[1].Status)
}

func TestParseReportMalformed(t *testing.T) {
	_, err := ParseReport("nothing here")
	require.Error(t, err)

	_, err = ParseReport("Backup last synced at\nnot-a-time\n")
	require.Error(t, err)
}

func TestWritePackageList(t *testing.T) {
	ctx, mgr, _ := newTestManager(t)

	require.NoError(t, mgr.WritePackageList(ctx, PipListFile, []string{"alpha", "beta", "alpha"}))
	content, err := os.ReadFile(mgr.AbsPath(PipListFile))
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\nalpha\n", string(content), "order kept, no dedup")

	require.NoError(t, mgr.WritePackageList(ctx, PipListFile, nil))
	content, err = os.ReadFile(mgr.AbsPath(PipListFile))
	require.NoError(t, err)
	assert.Empty(t, content, "empty list overwrites previous file")
}

func TestFileExistsAndCreateDir(t *testing.T) {
	ctx, mgr, _ := newTestManager(t)

	exists, err := mgr.FileExists(ctx, "fonts")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, mgr.CreateDir(ctx, "fonts"))
	require.NoError(t, mgr.CreateDir(ctx, "fonts"), "CreateDir is idempotent")

	exists, err = mgr.FileExists(ctx, "fonts")
	require.NoError(t, err)
	assert.True(t, exists)
}

func ptr(s string) *string { return &s }

func TestCopyFileOpenDenied(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	src := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(src, []byte("{}"), 0644))

	mgr := New(t.TempDir(), &logger, WithOpenFunc(func(name string) (*os.File, error) {
		if name == src {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
		}
		return os.Open(name)
	}))

	st, err := mgr.CopyFile(ctx, src, "code/settings.json")
	require.Error(t, err)
	assert.Equal(t, StatusUnknown, st)
	assert.True(t, errors.Is(err, fs.ErrPermission))

	ok, err := mgr.FileExists(ctx, "code/settings.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProgressBar(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	var out bytes.Buffer
	mgr := New(t.TempDir(), &logger, WithProgress(&out))

	mgr.StartOperation(ctx, 3)
	for i := 1; i <= 3; i++ {
		mgr.UpdateProgress(ctx, i)
	}
	processed, total := mgr.Progress()
	assert.Equal(t, 3, processed)
	assert.Equal(t, 3, total)

	mgr.FinishOperation(ctx)
	assert.NotEmpty(t, out.String())

	// nothing to draw for an empty operation
	out.Reset()
	mgr.StartOperation(ctx, 0)
	mgr.FinishOperation(ctx)
	assert.Empty(t, out.String())
}
