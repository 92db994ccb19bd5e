// Package files provides file system operations and discovery utilities.
//
// Discovery lists files in a directory by extension or glob pattern; the
// table store uses it to enumerate available tables and the golden harness
// uses it to collect descriptor parts.
//
// Manager performs copy, remove, read and write operations relative to a
// root directory, creating parent directories as needed.
//
// Example usage:
//
//	discovery := files.NewDiscovery(projectDir)
//	tables, err := discovery.FindFilesByExt("user/csv", ".csv")
//
//	manager := files.NewManager(goldenRoot, logger)
//	err = manager.CopyFile("result/page.rst", "master/page.rst")
package files
