package common

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileManager provides the small set of file operations the pipelines need,
// with standardized error wrapping and logging.
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsDir reports whether path exists and is a directory.
func (fm *FileManager) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ResolveDirectory returns the absolute form of path, the working directory
// when path is empty. It fails with ErrDirectoryNotFound unless the result
// is an existing directory.
func (fm *FileManager) ResolveDirectory(path string) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", WrapError(err, "failed to determine working directory")
		}
		path = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", WrapErrorf(err, "failed to resolve path %s", path)
	}
	if !fm.IsDir(abs) {
		return "", WrapErrorf(ErrDirectoryNotFound, "%s", abs)
	}
	return abs, nil
}

// ReadFile reads a whole file, refusing files larger than maxSize bytes when
// maxSize is positive.
func (fm *FileManager) ReadFile(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, WrapError(err, "failed to stat file: "+path)
	}
	if info.IsDir() {
		return nil, NewValidationError("path", path, "is a directory, not a file")
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, NewValidationError("file_size", info.Size(), "file exceeds maximum allowed size")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(err, "failed to read file: "+path)
	}
	return data, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if fm.FileExists(path) {
		if !fm.IsDir(path) {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// WriteFileAtomic writes data next to path and renames it into place so a
// reader never observes a half-written file.
func (fm *FileManager) WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := fm.EnsureDirectory(dir, 0o755); err != nil {
		return WrapError(err, "failed to create parent directories for: "+path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return WrapError(err, "failed to create temporary file for: "+path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to write file: "+path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to close file: "+path)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to set permissions on: "+path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to move file into place: "+path)
	}

	fm.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}

// RemoveIfExists deletes path and treats a missing file as success.
func (fm *FileManager) RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return WrapError(err, "failed to remove file: "+path)
	}
	fm.logger.Debug().Str("path", path).Msg("Removed file")
	return nil
}
