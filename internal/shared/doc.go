// Package shared holds helpers used across gxkit packages that belong to no
// single domain.
//
// The testutil subpackage provides table fixtures and a capturing slog
// handler for tests:
//
//	dir := testutil.TableDir(t, map[string]string{"colour.csv": "..."})
//	logger, handler := testutil.NewTestLogger(t)
package shared
