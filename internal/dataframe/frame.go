package dataframe

// Frame is an in-memory table: string cells addressed by record name and
// column name. Columns keep the source field order; rows keep insertion order.
type Frame struct {
	table     string
	indexName string
	columns   []string
	colPos    map[string]int
	index     []string
	rowPos    map[string]int
	data      [][]string
}

// Empty returns a blank frame that is not bound to any table
func Empty() *Frame {
	return newFrame("", "")
}

func newFrame(table, indexName string) *Frame {
	return &Frame{
		table:     table,
		indexName: indexName,
		colPos:    make(map[string]int),
		rowPos:    make(map[string]int),
	}
}

func (f *Frame) addColumn(name string) {
	f.colPos[name] = len(f.columns)
	f.columns = append(f.columns, name)
}

// setRow inserts a row, or overwrites the existing row with the same name
// without moving it.
func (f *Frame) setRow(name string, values []string) {
	if pos, ok := f.rowPos[name]; ok {
		f.data[pos] = values
		return
	}
	f.rowPos[name] = len(f.index)
	f.index = append(f.index, name)
	f.data = append(f.data, values)
}

// Table returns the table the frame was loaded from, "" for a blank frame
func (f *Frame) Table() string { return f.table }

// IndexName returns the source key field name
func (f *Frame) IndexName() string { return f.indexName }

// IsEmpty reports whether the frame has no rows
func (f *Frame) IsEmpty() bool { return len(f.index) == 0 }

// Len returns the number of rows
func (f *Frame) Len() int { return len(f.index) }

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Index returns the record names in row order
func (f *Frame) Index() []string {
	return append([]string(nil), f.index...)
}

// Loc returns the cell at record rec and column col
func (f *Frame) Loc(rec, col string) (string, bool) {
	r, ok := f.rowPos[rec]
	if !ok {
		return "", false
	}
	c, ok := f.colPos[col]
	if !ok {
		return "", false
	}
	return f.data[r][c], true
}

// ILoc returns the cell at row i and column j, "" when out of range
func (f *Frame) ILoc(i, j int) string {
	if i < 0 || i >= len(f.data) || j < 0 || j >= len(f.columns) {
		return ""
	}
	return f.data[i][j]
}

// Row returns record rec as a column to value mapping
func (f *Frame) Row(rec string) (map[string]string, bool) {
	r, ok := f.rowPos[rec]
	if !ok {
		return nil, false
	}
	return f.rowMap(r), true
}

// Column returns column col as a record to value mapping
func (f *Frame) Column(col string) (map[string]string, bool) {
	c, ok := f.colPos[col]
	if !ok {
		return nil, false
	}
	m := make(map[string]string, len(f.index))
	for r, name := range f.index {
		m[name] = f.data[r][c]
	}
	return m, true
}

// Records returns one column to value mapping per row, in row order
func (f *Frame) Records() []map[string]string {
	out := make([]map[string]string, len(f.index))
	for r := range f.index {
		out[r] = f.rowMap(r)
	}
	return out
}

// IndexMap returns the frame keyed by record name
func (f *Frame) IndexMap() map[string]map[string]string {
	out := make(map[string]map[string]string, len(f.index))
	for r, name := range f.index {
		out[name] = f.rowMap(r)
	}
	return out
}

// Header returns the index name followed by the column names
func (f *Frame) Header() []string {
	header := make([]string, 0, len(f.columns)+1)
	header = append(header, f.indexName)
	return append(header, f.columns...)
}

// Rows returns each row as its record name followed by its values
func (f *Frame) Rows() [][]string {
	rows := make([][]string, len(f.index))
	for r, name := range f.index {
		row := make([]string, 0, len(f.columns)+1)
		row = append(row, name)
		rows[r] = append(row, f.data[r]...)
	}
	return rows
}

func (f *Frame) rowMap(r int) map[string]string {
	m := make(map[string]string, len(f.columns))
	for c, col := range f.columns {
		m[col] = f.data[r][c]
	}
	return m
}
