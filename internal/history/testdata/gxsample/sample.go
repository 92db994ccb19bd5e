package gxsample

// Table is an opened table.
//
// .. versionadded:: 9.2
type Table struct{}

// Open opens a table.
//
// .. versionadded:: 9.2
func Open(name string) (*Table, error) { return &Table{}, nil }

// Keys returns the record keys.
//
// .. versionadded:: 9.3
func (t *Table) Keys() []string { return nil }

// TableError reports a table failure.
//
// .. versionadded:: 9.4
type TableError struct{ msg string }

// Error implements error.
func (e *TableError) Error() string { return e.msg }

// Version returns the library version.
//
// .. versionadded:: 9.4
func Version() string { return "9.4" }

// hidden is not exported.
//
// .. versionadded:: 9.4
func hidden() {}
