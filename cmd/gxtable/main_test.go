package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gxkit/internal/exporter"
	"gxkit/internal/infrastructure"
	"gxkit/internal/shared/testutil"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()

	project := testutil.TableDir(t, nil)
	cfg := fmt.Sprintf(`logging:
  level: debug
  output: file
  file_path: %s
tables:
  project_dir: %s
docs:
  min_version: "8.5"
  output_dir: %s
`, filepath.Join(project, "logs", "gxtable.log"), project, filepath.Join(project, "docs"))

	return testutil.WriteFile(t, project, "gxkit.yaml", cfg), project
}

func runTool(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_PrintTable(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	code, out, errOut := runTool(t, "-config", cfgPath, "-table", "rockcode", "-columns", "DESCRIPTION,PATTERN")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "CODE,DESCRIPTION,PATTERN\n"+
		"bau,BAUXITE,100\n"+
		"bif,BANDED IRON FM,202\n"+
		"cal,CALCRETE,315\n"+
		"cbt,CARBONATITE,305\n", out)
}

func TestRun_SelectiveRecords(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	code, out, errOut := runTool(t, "-config", cfgPath, "-table", "rockcode", "-records", "cal,bau", "-columns", "LABEL")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "CODE,LABEL\ncal,CAL\nbau,BAU\n", out)
}

func TestRun_EmptyRecordIsArgumentError(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	code, _, errOut := runTool(t, "-config", cfgPath, "-table", "rockcode", "-record", "")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "[ARGUMENT] Empty records string.")
}

func TestRun_MisspelledColumn(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	code, _, errOut := runTool(t, "-config", cfgPath, "-table", "rockcode", "-columns", "DESCRIPTON")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Table 'rockcode' has no columns")
}

func TestRun_EmptyColumnList(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	code, _, errOut := runTool(t, "-config", cfgPath, "-table", "rockcode", "-columns", ",")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Table 'rockcode' has no columns")
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"rockcode", "rockcode"},
		{filepath.Join("user", "csv", "colour.csv"), "colour"},
		{"abcdefghijklmnopqrstuvwxyz0123456789", "abcdefghijklmnopqrstuvwxyz01234"},
		{"géologie_structurale_de_la_région_nord", "géologie_structurale_de_la_régi"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			got := sheetName(tt.table)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), maxSheetName)
		})
	}
}

func TestRun_RecordMap(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	code, out, errOut := runTool(t, "-config", cfgPath, "-table", "rockcode", "-record-map", "bif")
	require.Equal(t, 0, code, errOut)

	var rec map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "BANDED IRON FM", rec["DESCRIPTION"])
	assert.Equal(t, "202", rec["PATTERN"])
}

func TestRun_ColumnMap(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	code, out, errOut := runTool(t, "-config", cfgPath, "-table", "rockcode", "-column-map", "LABEL")
	require.Equal(t, 0, code, errOut)

	var col map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &col))
	assert.Equal(t, map[string]string{"bau": "BAU", "bif": "BIF", "cal": "CAL", "cbt": "CBT"}, col)
}

func TestRun_Exports(t *testing.T) {
	cfgPath, project := writeConfig(t)
	csvPath := filepath.Join(project, "out", "subset.csv")
	xlsxPath := filepath.Join(project, "out", "subset.xlsx")

	code, out, errOut := runTool(t, "-config", cfgPath, "-table", "rockcode", "-record", "bif",
		"-csv", csvPath, "-xlsx", xlsxPath)
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, out)

	content, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "/ exported from rockcode by gxtable\n")
	assert.Contains(t, string(content), "bif,BIF,BANDED IRON FM,202,,,,R\n")

	rows, err := exporter.ReadSheet(xlsxPath, "rockcode")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bif", rows[1][0])
}

func TestRun_List(t *testing.T) {
	cfgPath, project := writeConfig(t)
	testutil.WriteFile(t, project, "colour.csv", "KEY,VALUE\n")

	code, out, errOut := runTool(t, "-config", cfgPath, "-list")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "colour\nrockcode\n", out)
}

func TestRun_Usage(t *testing.T) {
	code, _, errOut := runTool(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "-table is required")

	code, _, errOut = runTool(t, "-table", "x", "-record", "a", "-records", "b")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "mutually exclusive")
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runTool(t, "-version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "gxtable (gxkit)")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
