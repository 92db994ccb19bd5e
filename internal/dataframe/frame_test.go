package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleFrame() *Frame {
	f := newFrame("rockcode", "CODE")
	f.addColumn("LABEL")
	f.addColumn("PATTERN")
	f.setRow("bif", []string{"BIF", "202"})
	f.setRow("cal", []string{"CAL", "315"})
	return f
}

func TestEmpty(t *testing.T) {
	f := Empty()

	assert.Equal(t, "", f.Table())
	assert.True(t, f.IsEmpty())
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.Columns())
	assert.Empty(t, f.Records())
}

func TestFrame_Accessors(t *testing.T) {
	f := sampleFrame()

	assert.Equal(t, "rockcode", f.Table())
	assert.Equal(t, "CODE", f.IndexName())
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, []string{"LABEL", "PATTERN"}, f.Columns())
	assert.Equal(t, []string{"bif", "cal"}, f.Index())

	v, ok := f.Loc("cal", "PATTERN")
	assert.True(t, ok)
	assert.Equal(t, "315", v)

	_, ok = f.Loc("cal", "COLOR")
	assert.False(t, ok)
	_, ok = f.Loc("xyz", "LABEL")
	assert.False(t, ok)

	assert.Equal(t, "BIF", f.ILoc(0, 0))
	assert.Equal(t, "", f.ILoc(2, 0))
	assert.Equal(t, "", f.ILoc(0, -1))
}

func TestFrame_Orientations(t *testing.T) {
	f := sampleFrame()

	row, ok := f.Row("bif")
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"LABEL": "BIF", "PATTERN": "202"}, row)

	col, ok := f.Column("PATTERN")
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"bif": "202", "cal": "315"}, col)

	_, ok = f.Column("nope")
	assert.False(t, ok)

	assert.Equal(t, []map[string]string{
		{"LABEL": "BIF", "PATTERN": "202"},
		{"LABEL": "CAL", "PATTERN": "315"},
	}, f.Records())

	assert.Equal(t, "315", f.IndexMap()["cal"]["PATTERN"])

	assert.Equal(t, []string{"CODE", "LABEL", "PATTERN"}, f.Header())
	assert.Equal(t, [][]string{{"bif", "BIF", "202"}, {"cal", "CAL", "315"}}, f.Rows())
}

func TestFrame_SetRowOverwritesInPlace(t *testing.T) {
	f := sampleFrame()
	f.setRow("bif", []string{"BIF2", "999"})

	assert.Equal(t, []string{"bif", "cal"}, f.Index())
	v, _ := f.Loc("bif", "PATTERN")
	assert.Equal(t, "999", v)
}

func TestFrame_CopiesAreIndependent(t *testing.T) {
	f := sampleFrame()

	cols := f.Columns()
	cols[0] = "changed"
	idx := f.Index()
	idx[0] = "changed"

	assert.Equal(t, "LABEL", f.Columns()[0])
	assert.Equal(t, "bif", f.Index()[0])
}
