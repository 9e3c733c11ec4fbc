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
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNoBackup is returned when restoring a file that has no backup
var ErrNoBackup = errors.Base("backup file does not exist")

// BackupSuffix is appended to a target path to name its backup
const BackupSuffix = ".bak"

// 📊 FileStatus represents the outcome of patching a file
type FileStatus int

const (
	StatusUnknown    FileStatus = iota
	StatusPatched               // Pattern matched and the file was rewritten
	StatusNoMatch               // Pattern did not match, file left alone
	StatusWouldPatch            // Pattern matched during a dry run or check
	StatusRestored              // File was restored from its backup
	StatusFailed                // Operation failed for this file
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusPatched:
		return "patched"
	case StatusNoMatch:
		return "no-match"
	case StatusWouldPatch:
		return "would-patch"
	case StatusRestored:
		return "restored"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a processed file
type FileInfo struct {
	Path     string      // Path relative to the workspace root
	Patch    string      // Name of the patch that produced this entry
	Status   FileStatus  // Outcome
	Size     int64       // Size written, in bytes
	Mode     os.FileMode // File permissions
	Checksum string      // SHA-256 of the content on disk afterwards
	Start    int         // Start of the replaced span in the decoded UTF-8 text, when matched
	End      int         // End of the replaced span in the decoded UTF-8 text, when matched
	Error    error       // Any error associated with this file
}

// 💾 FileManager handles all file system operations on patch targets
type FileManager interface {
	// Core operations
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
	FileExists(ctx context.Context, path string) (bool, error)
	Stat(ctx context.Context, path string) (fs.FileInfo, error)

	// Target resolution
	Glob(ctx context.Context, pattern string) ([]string, error)

	// Backup operations
	BackupFile(ctx context.Context, path string) error
	RestoreFile(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	// Status tracking
	TrackFile(ctx context.Context, path string, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) ([]FileInfo, error)

	// Progress reporting
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string        // Workspace root all paths resolve against
	formatter FileFormatter // Formatter for status messages

	// Status tracking
	mu    sync.RWMutex
	files map[string]FileInfo

	// Progress tracking
	total     int
	processed int
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 NewManager creates a new status manager rooted at baseDir
func NewManager(baseDir string, formatter FileFormatter) *Manager {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: formatter,
		files:     make(map[string]FileInfo),
	}
}

// BaseDir returns the workspace root
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// 🔒 getAbsPath returns the absolute path for a given relative path
func (m *Manager) getAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, filepath.FromSlash(path))
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("reading file")

	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFile truncates and rewrites an existing file in place. It never creates
// the file and keeps its mode, so a read-only target fails before any byte of
// it is touched.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("size", len(content)).Msg("writing file")

	f, err := os.OpenFile(m.getAbsPath(path), os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return errors.Errorf("opening file for writing: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return errors.Errorf("writing file: %w", err)
	}

	if err := f.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}

	return nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(m.getAbsPath(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// Stat returns file metadata for a workspace path
func (m *Manager) Stat(ctx context.Context, path string) (fs.FileInfo, error) {
	info, err := os.Stat(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("stat file: %w", err)
	}
	return info, nil
}

// Glob expands a doublestar pattern against the workspace root. A pattern
// without glob metacharacters is returned cleaned to slash form, existing or
// not, so every spelling of one file yields the same path.
func (m *Manager) Glob(ctx context.Context, pattern string) ([]string, error) {
	if !HasMeta(pattern) {
		return []string{path.Clean(filepath.ToSlash(pattern))}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(m.baseDir), path.Clean(filepath.ToSlash(pattern)), doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("expanding %q: %w", pattern, err)
	}

	filtered := matches[:0]
	for _, match := range matches {
		if strings.HasSuffix(match, BackupSuffix) {
			continue
		}
		filtered = append(filtered, match)
	}
	sort.Strings(filtered)

	zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Strs("matches", filtered).Msg("expanded target")
	return filtered, nil
}

// HasMeta reports whether path contains doublestar glob metacharacters
func HasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

func (m *Manager) BackupFile(ctx context.Context, path string) error {
	absPath := m.getAbsPath(path)
	backupPath := absPath + BackupSuffix

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", backupPath).Msg("backing up file")

	if err := copyFile(absPath, backupPath); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}

	return nil
}

func (m *Manager) RestoreFile(ctx context.Context, path string) error {
	absPath := m.getAbsPath(path)
	backupPath := absPath + BackupSuffix

	// Check if backup exists
	if _, err := os.Stat(backupPath); errors.Is(err, fs.ErrNotExist) {
		return errors.Errorf("restoring %s: %w", path, ErrNoBackup)
	} else if err != nil {
		return errors.Errorf("checking backup existence: %w", err)
	}

	// Restore from backup
	if err := copyFile(backupPath, absPath); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	// Remove backup
	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}

	return nil
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, path string, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info.Path = path
	m.files[trackKey(path, info.Patch)] = info

	msg := m.formatter.FormatFileOperation(path, info.Patch, info.Status)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("patch", info.Patch).
		Stringer("status", info.Status).
		Str("checksum", info.Checksum).
		Msg(msg)
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, info := range m.files {
		if info.Path == path {
			return info, nil
		}
	}
	return FileInfo{}, errors.Errorf("file not tracked: %s", path)
}

// ListFiles returns tracked entries ordered by path, then patch name
func (m *Manager) ListFiles(ctx context.Context) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Path != files[j].Path {
			return files[i].Path < files[j].Path
		}
		return files[i].Patch < files[j].Patch
	})
	return files, nil
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	msg := m.formatter.FormatProgress(0, total)
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(msg)
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	msg := m.formatter.FormatProgress(processed, m.total)
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(msg)
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.formatter.FormatProgress(m.processed, m.total)
	zerolog.Ctx(ctx).Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(msg)
}

// Helper functions

func trackKey(path, patch string) string {
	return path + "\x00" + patch
}

// copyFile copies src to dst, giving dst the permissions of src
func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source file mode: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}

	return destination.Close()
}
