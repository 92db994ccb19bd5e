package files

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gxkit/internal/config"
)

// Manager provides file operations rooted at a base directory.
// Relative paths are resolved against the root.
type Manager struct {
	root   string
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(root string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{root: root, logger: logger}
}

// Root returns the manager's base directory
func (m *Manager) Root() string { return m.root }

// Path resolves a path relative to the root
func (m *Manager) Path(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.root, path)
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(m.Path(path))
	return err == nil
}

// EnsureDirectory creates a directory and its parents if missing
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.Path(path)

	m.logger.Debug("Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	return os.MkdirAll(fullPath, config.DirPerm)
}

// CopyFile copies a file from source to destination, creating the destination directory
func (m *Manager) CopyFile(src, dst string) error {
	srcPath := m.Path(src)
	dstPath := m.Path(dst)

	m.logger.Debug("Copying file",
		slog.String("src_path", srcPath),
		slog.String("dst_path", dstPath))

	if err := os.MkdirAll(filepath.Dir(dstPath), config.DirPerm); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return dstFile.Sync()
}

// RemoveIfExists deletes a file, treating a missing file as success
func (m *Manager) RemoveIfExists(path string) error {
	fullPath := m.Path(path)
	err := os.Remove(fullPath)
	if err == nil {
		m.logger.Debug("Removed file", slog.String("full_path", fullPath))
		return nil
	}
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ReadFile reads the entire content of a file
func (m *Manager) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(m.Path(path))
}

// WriteFile writes data to a file, creating parent directories
func (m *Manager) WriteFile(path string, data []byte) error {
	fullPath := m.Path(path)

	m.logger.Debug("Writing file",
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)))

	if err := os.MkdirAll(filepath.Dir(fullPath), config.DirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(fullPath, data, config.FilePerm)
}

// WriteFileIfChanged writes data only when it differs from the current content.
// It reports whether the file was written.
func (m *Manager) WriteFileIfChanged(path string, data []byte) (bool, error) {
	current, err := m.ReadFile(path)
	if err == nil && bytes.Equal(current, data) {
		return false, nil
	}
	if err := m.WriteFile(path, data); err != nil {
		return false, err
	}
	return true, nil
}
