// Package fsutil provides the filesystem capability the orchestration layer
// depends on. It wraps an afero.Fs so services can be exercised against an
// in-memory filesystem in tests.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// FileSystem exposes the filesystem operations the tool needs: existence
// checks, directory creation, listing, deletion and copying.
type FileSystem struct {
	fs afero.Fs
}

// NewOsFileSystem returns a FileSystem backed by the real OS filesystem
func NewOsFileSystem() *FileSystem {
	return &FileSystem{fs: afero.NewOsFs()}
}

// NewMemFileSystem returns a FileSystem backed by an in-memory filesystem
func NewMemFileSystem() *FileSystem {
	return &FileSystem{fs: afero.NewMemMapFs()}
}

// Exists reports whether a file or directory exists at path
func (f *FileSystem) Exists(path string) bool {
	ok, err := afero.Exists(f.fs, path)
	return err == nil && ok
}

// IsDir reports whether path exists and is a directory
func (f *FileSystem) IsDir(path string) bool {
	ok, err := afero.IsDir(f.fs, path)
	return err == nil && ok
}

// MkdirAll creates the directory at path along with any missing parents
func (f *FileSystem) MkdirAll(path string) error {
	return f.fs.MkdirAll(path, 0o755)
}

// Delete removes the entry at path, recursively for directories
func (f *FileSystem) Delete(path string) error {
	return f.fs.RemoveAll(path)
}

// List returns the full paths of the entries directly inside dir, sorted by
// name for deterministic iteration.
func (f *FileSystem) List(dir string) ([]string, error) {
	infos, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	paths := make([]string, 0, len(infos))
	for _, info := range infos {
		paths = append(paths, filepath.Join(dir, info.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFile reads the whole file at path
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

// WriteFile writes data to path, creating parent directories as needed
func (f *FileSystem) WriteFile(path string, data []byte) error {
	if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(f.fs, path, data, 0o644)
}

// Copy copies src to dst. Files are copied byte for byte preserving the
// executable bit; directories are copied recursively. dst must not exist or
// will be overwritten file by file.
func (f *FileSystem) Copy(src, dst string) error {
	info, err := f.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if info.IsDir() {
		return f.copyDir(src, dst)
	}
	return f.copyFile(src, dst, info.Mode())
}

func (f *FileSystem) copyDir(src, dst string) error {
	if err := f.fs.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	infos, err := afero.ReadDir(f.fs, src)
	if err != nil {
		return err
	}
	for _, info := range infos {
		srcEntry := filepath.Join(src, info.Name())
		dstEntry := filepath.Join(dst, info.Name())
		if info.IsDir() {
			if err := f.copyDir(srcEntry, dstEntry); err != nil {
				return err
			}
			continue
		}
		if err := f.copyFile(srcEntry, dstEntry, info.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func (f *FileSystem) copyFile(src, dst string, mode os.FileMode) error {
	in, err := f.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := f.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := f.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
