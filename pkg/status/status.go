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
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ConfigsDir is the directory under the destination that holds the backup.
const ConfigsDir = "configs"

// 📊 FileStatus represents what happened to a destination file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File didn't exist in destination
	StatusModified             // File existed but content differed
	StatusUnchanged            // File existed and content matched
	StatusSkipped              // File could not be copied
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a destination file
type FileInfo struct {
	Path   string      // Path relative to the configs directory
	Source string      // Source path on the host
	Status FileStatus  // What happened to the file
	Size   int64       // File size in bytes
	Mode   os.FileMode // File permissions
	Error  error       // Any error associated with this file
}

// 💾 FileManager handles all writes under the configs directory
type FileManager interface {
	WriteFile(ctx context.Context, path string, content []byte) error
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	CopyFile(ctx context.Context, src, path string) (FileStatus, error)
	FileExists(ctx context.Context, path string) (bool, error)
	CreateDir(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	ListFiles(ctx context.Context) []FileInfo

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string          // <destination>/configs
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages

	mu    sync.RWMutex
	files []FileInfo

	total     int
	processed int

	open     func(name string) (*os.File, error)
	progress io.Writer
	bar      *pterm.ProgressbarPrinter
}

// 🔧 Option configures a Manager
type Option func(*Manager)

// WithOpenFunc replaces os.Open for reading copy sources.
func WithOpenFunc(open func(name string) (*os.File, error)) Option {
	return func(m *Manager) {
		m.open = open
	}
}

// WithProgress draws a progress bar on w while an operation runs.
func WithProgress(w io.Writer) Option {
	return func(m *Manager) {
		m.progress = w
	}
}

var _ FileManager = (*Manager)(nil)
var _ StatusReporter = (*Manager)(nil)

// 🏭 New creates a manager rooted at <destination>/configs
func New(destination string, logger *zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		baseDir:   filepath.Join(filepath.Clean(destination), ConfigsDir),
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		open:      os.Open,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the configs directory all paths are relative to.
func (m *Manager) Root() string {
	return m.baseDir
}

// AbsPath returns the absolute path for a path relative to Root.
func (m *Manager) AbsPath(path string) string {
	return filepath.Join(m.baseDir, path)
}

func (m *Manager) checksumFile(path string) (string, error) {
	f, err := m.open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// FileManager interface implementation

func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	absPath := m.AbsPath(path)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories for %s: %w", absPath, err)
	}

	return m.WriteFileAtomic(ctx, path, content)
}

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.AbsPath(path)
	tempPath := absPath + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file %s: %w", tempPath, err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file to %s: %w", absPath, err)
	}

	m.logger.Debug().Str("path", absPath).Int("size", len(content)).Msg("wrote file")
	return nil
}

// CopyFile copies src to path under Root, keeping its permission bits and
// modification time. Content that already matches is left alone.
func (m *Manager) CopyFile(ctx context.Context, src, path string) (FileStatus, error) {
	absPath := m.AbsPath(path)

	info, err := os.Stat(src)
	if err != nil {
		return StatusUnknown, errors.Errorf("stat %s: %w", src, err)
	}

	fileStatus := StatusNew
	if _, err := os.Stat(absPath); err == nil {
		srcSum, err := m.checksumFile(src)
		if err != nil {
			return StatusUnknown, errors.Errorf("reading %s: %w", src, err)
		}
		dstSum, err := m.checksumFile(absPath)
		if err != nil {
			return StatusUnknown, errors.Errorf("reading %s: %w", absPath, err)
		}
		if srcSum == dstSum {
			return StatusUnchanged, nil
		}
		fileStatus = StatusModified
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return StatusUnknown, errors.Errorf("creating parent directories for %s: %w", absPath, err)
	}

	source, err := m.open(src)
	if err != nil {
		return StatusUnknown, errors.Errorf("opening %s: %w", src, err)
	}
	defer source.Close()

	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return StatusUnknown, errors.Errorf("creating temp file for %s: %w", absPath, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := io.Copy(tmp, source); err != nil {
		cleanup()
		return StatusUnknown, errors.Errorf("copying %s to %s: %w", src, absPath, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		cleanup()
		return StatusUnknown, errors.Errorf("setting mode on %s: %w", absPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return StatusUnknown, errors.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return StatusUnknown, errors.Errorf("renaming temp file to %s: %w", absPath, err)
	}

	// timestamps are best effort, some filesystems refuse them
	if err := os.Chtimes(absPath, info.ModTime(), info.ModTime()); err != nil {
		m.logger.Debug().Err(err).Str("path", absPath).Msg("could not preserve modification time")
	}

	return fileStatus, nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(m.AbsPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) CreateDir(ctx context.Context, path string) error {
	absPath := m.AbsPath(path)
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return errors.Errorf("creating directory %s: %w", absPath, err)
	}
	return nil
}

// ReadFile reads a file under Root.
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.AbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// SameContent reports whether the file under Root holds exactly content.
func (m *Manager) SameContent(ctx context.Context, path string, content []byte) bool {
	current, err := m.ReadFile(ctx, path)
	return err == nil && bytes.Equal(current, content)
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files = append(m.files, info)
	msg := m.formatter.FormatFileOperation(info.Path, info.Status)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	m.logger.Debug().Str("path", info.Path).Str("source", info.Source).Str("status", info.Status.String()).Msg(msg)
}

func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]FileInfo(nil), m.files...)
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.logger.Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))

	if m.progress == nil || total == 0 {
		return
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Copying configs").
		WithWriter(m.progress).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		m.logger.Debug().Err(err).Msg("could not start progress bar")
		return
	}
	m.bar = bar
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delta := processed - m.processed
	m.processed = processed
	m.logger.Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))

	if m.bar != nil && delta > 0 {
		m.bar.Add(delta)
	}
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))

	if m.bar != nil {
		if _, err := m.bar.Stop(); err != nil {
			m.logger.Debug().Err(err).Msg("could not stop progress bar")
		}
		m.bar = nil
	}
}

// Progress returns how many of the current operation's items are done.
func (m *Manager) Progress() (processed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}
