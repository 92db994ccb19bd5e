package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for every file location gxkit touches
type Paths struct {
	ProjectDir  string
	TableDirs   []string // table search order
	DocsDir     string
	TemplateDir string
	GoldenRoot  string
	LogsDir     string
}

// GetPaths resolves the configured directories to absolute paths.
// Relative entries are taken relative to the project directory.
func (c *Config) GetPaths() (*Paths, error) {
	projectDir, err := filepath.Abs(c.Tables.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(projectDir, p)
	}

	tableDirs := []string{projectDir}
	if c.Tables.UserDir != "" {
		tableDirs = append(tableDirs, resolve(c.Tables.UserDir))
	}
	if c.Tables.GeosoftHome != "" {
		tableDirs = append(tableDirs, filepath.Join(resolve(c.Tables.GeosoftHome), GeosoftCSVDir))
	}
	for _, dir := range c.Tables.ExtraDirs {
		tableDirs = append(tableDirs, resolve(dir))
	}

	return &Paths{
		ProjectDir:  projectDir,
		TableDirs:   tableDirs,
		DocsDir:     resolve(c.Docs.OutputDir),
		TemplateDir: resolve(c.Docs.TemplateDir),
		GoldenRoot:  resolve(c.Golden.Root),
		LogsDir:     resolve(filepath.Dir(c.Logging.FilePath)),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// Table search directories are read-only inputs and are never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DocsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, DirPerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// GetDocsPath returns the path for a generated documentation file
func (p *Paths) GetDocsPath(filename string) string {
	return filepath.Join(p.DocsDir, filename)
}

// GetGoldenResultDir returns the directory freshly rendered artifacts go to
func (p *Paths) GetGoldenResultDir() string {
	return filepath.Join(p.GoldenRoot, GoldenResultDir)
}

// GetGoldenMasterDir returns the directory holding accepted artifacts
func (p *Paths) GetGoldenMasterDir() string {
	return filepath.Join(p.GoldenRoot, GoldenMasterDir)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("project", p.ProjectDir),
			slog.Any("tables", p.TableDirs),
			slog.String("docs", p.DocsDir),
			slog.String("templates", p.TemplateDir),
			slog.String("golden", p.GoldenRoot),
			slog.String("logs", p.LogsDir),
		))
}
