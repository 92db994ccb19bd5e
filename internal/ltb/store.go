package ltb

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gxkit/internal/config"
	"gxkit/internal/files"
)

// Store resolves table names against an ordered list of search directories
type Store struct {
	Dirs   []string
	Logger *slog.Logger
}

// NewStore creates a store searching the configured table directories
func NewStore(paths *config.Paths, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Dirs: paths.TableDirs, Logger: logger}
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Resolve maps a table name to a file path. A name without an extension
// gets the default table extension. Names carrying a directory are used as
// given; bare names are looked up in Dirs in order.
func (s *Store) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty table name", ErrTableNotFound)
	}

	file := name
	if filepath.Ext(file) == "" {
		file += config.DefaultTableExt
	}

	if filepath.IsAbs(file) || strings.ContainsAny(file, `/\`) {
		if isFile(file) {
			return file, nil
		}
		return "", fmt.Errorf("%w: %s", ErrTableNotFound, file)
	}

	for _, dir := range s.Dirs {
		candidate := filepath.Join(dir, file)
		if isFile(candidate) {
			s.logger().Debug("Resolved table",
				slog.String("table", name),
				slog.String("path", candidate))
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s (searched %s)", ErrTableNotFound, file, strings.Join(s.Dirs, ", "))
}

// Open resolves and parses a table. A non-empty key scopes the table to
// that single record and fails with ErrKeyNotFound when it is absent.
func (s *Store) Open(name, key string) (*Table, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(name, f)
	if err != nil {
		return nil, err
	}

	if key == "" {
		return t, nil
	}
	return t.scope(key)
}

// List returns the table names available in the search directories.
// A name found in several directories is reported once, for the first one.
func (s *Store) List() ([]string, error) {
	discovery := files.NewDiscovery("")
	seen := make(map[string]bool)
	var names []string

	for _, dir := range s.Dirs {
		found, err := discovery.FindFilesByExt(dir, config.DefaultTableExt)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, f := range found {
			name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
