package ltb

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrTableNotFound is returned when a table name resolves to no file
	ErrTableNotFound = errors.New("table not found")
	// ErrKeyNotFound is returned when a record key is absent from a table
	ErrKeyNotFound = errors.New("key not found")
)

// KeyError reports a key lookup that failed. It matches ErrKeyNotFound.
type KeyError struct {
	Table string
	Key   string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key '%s' not found in table '%s'", e.Key, e.Table)
}

// Is lets errors.Is match KeyError against ErrKeyNotFound
func (e *KeyError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// ParseError reports a malformed table file
type ParseError struct {
	Table string
	Line  int
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("table '%s' line %d: %s", e.Table, e.Line, msg)
	}
	return fmt.Sprintf("table '%s': %s", e.Table, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Table is an immutable, fully loaded table resource.
// Field 0 is the record key field.
type Table struct {
	name   string
	fields []string
	keys   []string
	rows   [][]string
	index  map[string]int
}

// Name returns the table name the table was opened with
func (t *Table) Name() string { return t.name }

// Fields returns the number of fields, including the key field
func (t *Table) Fields() int { return len(t.fields) }

// FieldName returns the normalised name of field i, or "" when out of range
func (t *Table) FieldName(i int) string {
	if i < 0 || i >= len(t.fields) {
		return ""
	}
	return t.fields[i]
}

// Records returns the number of records
func (t *Table) Records() int { return len(t.rows) }

// Keys returns the record keys in file order
func (t *Table) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// FindKey returns the row index of key. Keys are case-sensitive.
func (t *Table) FindKey(key string) (int, error) {
	row, ok := t.index[key]
	if !ok {
		return -1, &KeyError{Table: t.name, Key: key}
	}
	return row, nil
}

// Value returns the string value at (row, field), or "" when out of range
func (t *Table) Value(row, field int) string {
	if row < 0 || row >= len(t.rows) || field < 0 || field >= len(t.fields) {
		return ""
	}
	return t.rows[row][field]
}

// scope returns a copy of t restricted to the single record key
func (t *Table) scope(key string) (*Table, error) {
	row, err := t.FindKey(key)
	if err != nil {
		return nil, err
	}
	return &Table{
		name:   t.name,
		fields: t.fields,
		keys:   []string{key},
		rows:   [][]string{t.rows[row]},
		index:  map[string]int{key: 0},
	}, nil
}

// NormalizeFieldName maps a header entry to its field name:
// blanks and leading underscores removed, upper-cased.
func NormalizeFieldName(name string) string {
	return strings.ToUpper(strings.TrimLeft(strings.TrimSpace(name), "_"))
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a table from r. Lines starting with '/' are comments, the
// first remaining line is the header and field 0 holds the record key.
func Parse(name string, r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comment = '/'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Table: name, Msg: "missing header"}
	}
	if err != nil {
		return nil, &ParseError{Table: name, Line: csvErrorLine(err), Msg: "invalid header", Err: err}
	}
	headerLine, _ := cr.FieldPos(0)

	t := &Table{
		name:   name,
		fields: make([]string, len(header)),
		index:  make(map[string]int),
	}

	seen := make(map[string]bool, len(header))
	for i, h := range header {
		field := NormalizeFieldName(h)
		if field == "" {
			return nil, &ParseError{Table: name, Line: headerLine, Msg: fmt.Sprintf("empty field name at position %d", i)}
		}
		if seen[field] {
			return nil, &ParseError{Table: name, Line: headerLine, Msg: fmt.Sprintf("duplicate field %s", field)}
		}
		seen[field] = true
		t.fields[i] = field
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Table: name, Line: csvErrorLine(err), Msg: "invalid record", Err: err}
		}
		line, _ := cr.FieldPos(0)
		if len(record) > len(t.fields) {
			return nil, &ParseError{Table: name, Line: line,
				Msg: fmt.Sprintf("record has %d values, header declares %d fields", len(record), len(t.fields))}
		}
		for len(record) < len(t.fields) {
			record = append(record, "")
		}

		key := strings.TrimSpace(record[0])
		if key == "" {
			return nil, &ParseError{Table: name, Line: line, Msg: "empty record key"}
		}
		if _, dup := t.index[key]; dup {
			return nil, &ParseError{Table: name, Line: line, Msg: fmt.Sprintf("duplicate key %s", key)}
		}
		record[0] = key

		t.index[key] = len(t.rows)
		t.keys = append(t.keys, key)
		t.rows = append(t.rows, record)
	}

	return t, nil
}

// csvErrorLine returns the line a csv read error points at, or 0
func csvErrorLine(err error) int {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return csvErr.Line
	}
	return 0
}
