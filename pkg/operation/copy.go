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

package operation

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/cfgbackup/pkg/discovery"
	"github.com/walteh/cfgbackup/pkg/log"
	"github.com/walteh/cfgbackup/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// FontsDir is the directory under configs/ that receives fonts.
const FontsDir = "fonts"

// ⏭️ Skipped is a path left out because of a permission error
type Skipped struct {
	Path string
	Err  error
}

// 📋 CopyReport describes what a copy wrote and what it skipped
type CopyReport struct {
	Apps    []string          // Identifiers that got a destination directory
	Files   []status.FileInfo // Files written or already up to date
	Skipped []Skipped         // Paths skipped on permission errors
	Fonts   bool              // Whether fonts were copied
}

// 📦 Copier copies discovered paths into the configs directory
type Copier struct {
	mgr     *status.Manager
	exclude []string
	report  *CopyReport
	visited map[string]struct{}
}

// 🏭 NewCopier creates a copier that writes through mgr
func NewCopier(mgr *status.Manager, exclude []string) *Copier {
	return &Copier{
		mgr:     mgr,
		exclude: exclude,
		report:  &CopyReport{},
	}
}

// Report returns everything copied so far.
func (c *Copier) Report() *CopyReport {
	return c.report
}

// 📋 CopyConfigs copies every found path of every discovered application
// into configs/<app>/, merging with whatever is already there.
func (c *Copier) CopyConfigs(ctx context.Context, res *discovery.Result) (*CopyReport, error) {
	console := log.FromContext(ctx)
	entries := res.Entries()

	c.mgr.StartOperation(ctx, len(entries))
	defer c.mgr.FinishOperation(ctx)

	for i, found := range entries {
		if len(found.Paths) == 0 {
			continue
		}

		console.StartAppOperation(ctx, log.AppOperation{
			Name:        found.ID,
			Paths:       len(found.Paths),
			Destination: c.mgr.AbsPath(found.ID),
		})

		if err := c.mgr.CreateDir(ctx, found.ID); err != nil {
			console.EndAppOperation(ctx)
			return c.report, errors.Errorf("creating directory for %s: %w", found.ID, err)
		}
		c.report.Apps = append(c.report.Apps, found.ID)

		for _, src := range found.Paths {
			if err := c.copyPath(ctx, src, found.ID); err != nil {
				console.EndAppOperation(ctx)
				return c.report, errors.Errorf("copying %s for %s: %w", src, found.ID, err)
			}
		}

		console.EndAppOperation(ctx)
		c.mgr.UpdateProgress(ctx, i+1)
	}

	return c.report, nil
}

// 🔤 CopyFonts copies the contents of fontsDir into configs/fonts/.
// A missing fonts directory is only a warning.
func (c *Copier) CopyFonts(ctx context.Context, fontsDir string) (*CopyReport, error) {
	console := log.FromContext(ctx)

	info, err := os.Stat(fontsDir)
	switch {
	case err == nil && !info.IsDir():
		console.Warningf("Fonts path %s is not a directory", fontsDir)
		return c.report, nil
	case err != nil && errors.Is(err, fs.ErrNotExist):
		console.Warningf("No fonts found at %s", fontsDir)
		return c.report, nil
	case err != nil && errors.Is(err, fs.ErrPermission):
		c.skip(ctx, fontsDir, FontsDir, err)
		return c.report, nil
	case err != nil:
		return c.report, errors.Errorf("checking fonts directory %s: %w", fontsDir, err)
	}

	console.StartAppOperation(ctx, log.AppOperation{
		Name:        FontsDir,
		Paths:       1,
		Destination: c.mgr.AbsPath(FontsDir),
	})
	defer console.EndAppOperation(ctx)

	c.visited = map[string]struct{}{}
	if err := c.copyDir(ctx, fontsDir, FontsDir, ""); err != nil {
		return c.report, errors.Errorf("copying fonts from %s: %w", fontsDir, err)
	}
	c.report.Fonts = true

	return c.report, nil
}

// copyPath copies one discovered path into configs/<app>/<base>.
func (c *Copier) copyPath(ctx context.Context, src, app string) error {
	base := filepath.Base(src)
	rel := filepath.Join(app, base)

	if c.excluded(ctx, base) {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			c.skip(ctx, src, rel, err)
			return nil
		}
		return errors.Errorf("stat %s: %w", src, err)
	}

	switch {
	case info.IsDir():
		c.visited = map[string]struct{}{}
		return c.copyDir(ctx, src, rel, base)
	case info.Mode().IsRegular():
		return c.copyFile(ctx, src, rel)
	}

	skipSpecial(ctx, src, info)
	return nil
}

// skipSpecial reports a path that is neither a directory nor a regular file.
func skipSpecial(ctx context.Context, src string, info fs.FileInfo) {
	log.FromContext(ctx).Warningf("Skipping special file: %s", src)
	zerolog.Ctx(ctx).Debug().Str("path", src).Str("mode", info.Mode().String()).Msg("skipping special file")
}

// copyDir merges the tree at src into dst (relative to configs/). match is
// the path used for exclude patterns, relative to the app directory.
func (c *Copier) copyDir(ctx context.Context, src, dst, match string) error {
	logger := zerolog.Ctx(ctx)

	// visited holds the resolved ancestors of src only
	if real, err := filepath.EvalSymlinks(src); err == nil {
		if _, onPath := c.visited[real]; onPath {
			log.FromContext(ctx).Warningf("Skipping symlink loop: %s", src)
			logger.Debug().Str("path", src).Str("target", real).Msg("symlink points back into an ancestor")
			return nil
		}
		c.visited[real] = struct{}{}
		defer delete(c.visited, real)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			c.skip(ctx, src, dst, err)
			return nil
		}
		return errors.Errorf("reading directory %s: %w", src, err)
	}

	if err := c.mgr.CreateDir(ctx, dst); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			c.skip(ctx, src, dst, err)
			return nil
		}
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		matchPath := filepath.Join(match, entry.Name())

		if c.excluded(ctx, matchPath) {
			continue
		}

		// follow symlinks like a regular copy would
		info, err := os.Stat(srcPath)
		if err != nil {
			switch {
			case errors.Is(err, fs.ErrPermission):
				c.skip(ctx, srcPath, dstPath, err)
				continue
			case errors.Is(err, fs.ErrNotExist):
				log.FromContext(ctx).Warningf("Skipping dangling symlink: %s", srcPath)
				continue
			}
			return errors.Errorf("stat %s: %w", srcPath, err)
		}

		switch {
		case info.IsDir():
			if err := c.copyDir(ctx, srcPath, dstPath, matchPath); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := c.copyFile(ctx, srcPath, dstPath); err != nil {
				return err
			}
		default:
			skipSpecial(ctx, srcPath, info)
		}
	}

	return nil
}

// copyFile copies a single regular file to dst (relative to configs/).
func (c *Copier) copyFile(ctx context.Context, src, dst string) error {
	fileStatus, err := c.mgr.CopyFile(ctx, src, dst)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			c.skip(ctx, src, dst, err)
			return nil
		}
		return err
	}

	info := status.FileInfo{
		Path:   dst,
		Source: src,
		Status: fileStatus,
	}
	if st, err := os.Stat(src); err == nil {
		info.Size = st.Size()
		info.Mode = st.Mode().Perm()
	}

	c.mgr.TrackFile(ctx, info)
	c.report.Files = append(c.report.Files, info)

	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:       dst,
		Type:       "file",
		Status:     fileStatus.String(),
		IsNew:      fileStatus == status.StatusNew,
		IsModified: fileStatus == status.StatusModified,
	})
	return nil
}

// skip records a permission failure and keeps going.
func (c *Copier) skip(ctx context.Context, src, dst string, err error) {
	log.FromContext(ctx).Warningf("Permission denied to copy: %s", src)

	c.mgr.TrackFile(ctx, status.FileInfo{
		Path:   dst,
		Source: src,
		Status: status.StatusSkipped,
		Error:  err,
	})
	c.report.Skipped = append(c.report.Skipped, Skipped{Path: src, Err: err})

	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:      dst,
		Type:      "file",
		Status:    "permission denied",
		IsSkipped: true,
	})
}

// 🔍 excluded checks if a path should be left out
func (c *Copier) excluded(ctx context.Context, path string) bool {
	if len(c.exclude) == 0 {
		return false
	}

	logger := zerolog.Ctx(ctx)
	path = filepath.ToSlash(path)
	for _, pattern := range c.exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			logger.Debug().Str("pattern", pattern).Str("path", path).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			logger.Debug().Str("file", path).Str("pattern", pattern).Msg("file excluded by pattern")
			return true
		}
	}

	return false
}
