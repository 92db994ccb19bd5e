package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// RockcodeCSV is the standard rock-code table used across tests
const RockcodeCSV = `/ standard Geosoft rock codes
/ CODE is the record key
CODE,LABEL,__DESCRIPTION,PATTERN,PAT_SIZE,PAT_DENSITY,PAT_THICKNESS,COLOR
bau,BAU,BAUXITE,100,,,,RG49B181
bif,BIF,"BANDED IRON FM",202,,,,R
cal,CAL,CALCRETE,315,,,,B
cbt,CBT,CARBONATITE,305,,,,R128G128B192
`

// RockcodeFields lists the rockcode fields after the key field, in file order
var RockcodeFields = []string{"LABEL", "DESCRIPTION", "PATTERN", "PAT_SIZE", "PAT_DENSITY", "PAT_THICKNESS", "COLOR"}

// WriteFile writes content to dir/name, creating dir, and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// TableDir creates a temporary table directory holding rockcode.csv plus
// any extra name/content pairs and returns its path.
func TableDir(t *testing.T, extra map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	WriteFile(t, dir, "rockcode.csv", RockcodeCSV)
	for name, content := range extra {
		WriteFile(t, dir, name, content)
	}
	return dir
}
