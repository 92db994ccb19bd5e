package history

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gxkit/internal/config"
	apperrors "gxkit/internal/errors"
	"gxkit/internal/golden"
	"gxkit/internal/shared/testutil"
)

func mustVersion(t *testing.T, s string) *version.Version {
	t.Helper()
	v, err := version.NewVersion(s)
	require.NoError(t, err)
	return v
}

func refs(entries []Ref) []string {
	out := make([]string, len(entries))
	for i, r := range entries {
		out[i] = r.String()
	}
	return out
}

func TestVersionAdded(t *testing.T) {
	tests := []struct {
		doc   string
		want  string
		found bool
	}{
		{".. versionadded:: 9.2", "9.2", true},
		{"Text\n\n    .. versionadded:: 9.3.1\n", "9.3.1", true},
		{".. versionadded:: 9.2\n.. versionadded:: 9.5", "9.2", true},
		{"added in 9.2.", "", false},
		{".. versionadded:: 9.2.", "9.2", true},
		{".. versionadded::9.2", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			v, ok := VersionAdded(tt.doc)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, Label(v))
			}
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "9.2", Label(mustVersion(t, "9.2")))
	assert.Equal(t, "9.2", Label(mustVersion(t, "9.2.0")))
	assert.Equal(t, "9.3.1", Label(mustVersion(t, "9.3.1")))
	assert.Equal(t, "9.0", Label(mustVersion(t, "9")))
}

func loadGxpy(t *testing.T) *Package {
	t.Helper()
	pkg, err := LoadManifest(filepath.Join("testdata", "gxpy.yaml"))
	require.NoError(t, err)
	return pkg
}

func TestCollect(t *testing.T) {
	h := Collect(loadGxpy(t), mustVersion(t, "8.5"))

	versions := h.Versions()
	require.Len(t, versions, 2)
	assert.Equal(t, "9.3.1", versions[0].Label())
	assert.Equal(t, "9.2", versions[1].Label())

	assert.Empty(t, versions[0].Classes)
	assert.Equal(t, []string{":func:`geosoft.gxpy.dataframe.GXdf.to_csv`"}, refs(versions[0].Functions))

	assert.Equal(t, []string{
		":class:`geosoft.gxpy.dataframe.GXdf`",
		":exc:`geosoft.gxpy.dataframe.DfException`",
	}, refs(versions[1].Classes))
	assert.Equal(t, []string{
		":func:`geosoft.gxpy.dataframe.table_column`",
		":func:`geosoft.gxpy.dataframe.table_record`",
	}, refs(versions[1].Functions))

	assert.Equal(t, 5, h.Len())
}

func TestCollect_FloorAndEquivalentVersions(t *testing.T) {
	pkg := &Package{Name: "p", Modules: []Module{{
		Name: "m",
		Symbols: []Symbol{
			{Name: "a", Kind: KindFunction, Doc: ".. versionadded:: 9.2"},
			{Name: "b", Kind: KindFunction, Doc: ".. versionadded:: 9.2.0"},
			{Name: "c", Kind: KindFunction, Doc: ".. versionadded:: 8.4"},
			{Name: "d", Kind: KindFunction, Doc: ".. versionadded:: 8.5"},
			{Name: "_e", Kind: KindFunction, Doc: ".. versionadded:: 9.2"},
		},
	}}}

	versions := Collect(pkg, mustVersion(t, "8.5")).Versions()
	require.Len(t, versions, 2)
	assert.Equal(t, []string{":func:`m.a`", ":func:`m.b`"}, refs(versions[0].Functions))
	assert.Equal(t, "8.5", versions[1].Label())

	// no floor keeps everything public
	assert.Len(t, Collect(pkg, nil).Versions(), 3)
}

func TestCollect_PrivateClassSkipsMembers(t *testing.T) {
	pkg := &Package{Name: "p", Modules: []Module{{
		Name: "m",
		Symbols: []Symbol{{
			Name: "_Hidden", Kind: KindClass, Doc: ".. versionadded:: 9.2",
			Members: []Symbol{{Name: "run", Kind: KindMethod, Doc: ".. versionadded:: 9.2"}},
		}},
	}}}

	assert.Equal(t, 0, Collect(pkg, nil).Len())
}

func TestCollect_BucketsSorted(t *testing.T) {
	pkg := &Package{Name: "p", Modules: []Module{{
		Name: "m",
		Symbols: []Symbol{
			{Name: "zeta", Kind: KindFunction, Doc: ".. versionadded:: 9.2"},
			{Name: "alpha", Kind: KindFunction, Doc: ".. versionadded:: 9.2"},
			{Name: "Mid", Kind: KindClass, Doc: ".. versionadded:: 9.2",
				Members: []Symbol{{Name: "go", Kind: KindMethod, Doc: ".. versionadded:: 9.2"}}},
		},
	}}}

	e := Collect(pkg, nil).Versions()[0]
	assert.Equal(t, []string{":func:`m.Mid.go`", ":func:`m.alpha`", ":func:`m.zeta`"}, refs(e.Functions))
}

func TestParseManifest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		errType apperrors.ErrorType
	}{
		{"unknown kind", "name: p\nmodules:\n  - name: m\n    symbols:\n      - name: x\n        kind: macro\n", apperrors.ErrTypeValidation},
		{"missing name", "modules:\n  - name: m\n", apperrors.ErrTypeValidation},
		{"no modules", "name: p\n", apperrors.ErrTypeValidation},
		{"unknown key", "name: p\nextra: 1\nmodules:\n  - name: m\n", apperrors.ErrTypeParsing},
		{"bad yaml", "name: [", apperrors.ErrTypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.errType), "got %v", err)
		})
	}
}

func TestLoadManifests(t *testing.T) {
	paths := []string{
		filepath.Join("testdata", "gxpy.yaml"),
		filepath.Join("testdata", "gxapi.yaml"),
	}

	pkgs, err := LoadManifests(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "geosoft.gxpy", pkgs[0].Name)
	assert.Equal(t, "geosoft.gxapi", pkgs[1].Name)

	_, err = LoadManifests(context.Background(), append(paths, filepath.Join("testdata", "missing.yaml")))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeResource))
}

func TestMergePackages(t *testing.T) {
	a := &Package{Name: "p", Modules: []Module{{Name: "m1"}}}
	b := &Package{Name: "q", Modules: []Module{{Name: "n1"}}}
	c := &Package{Name: "p", Title: "P", Modules: []Module{{Name: "m2"}}}

	merged := MergePackages([]*Package{a, b, nil, c})
	require.Len(t, merged, 2)
	assert.Equal(t, "P", merged[0].DisplayTitle())
	assert.Equal(t, []Module{{Name: "m1"}, {Name: "m2"}}, merged[0].Modules)
	assert.Equal(t, "q", merged[1].DisplayTitle())

	// inputs are untouched
	assert.Len(t, a.Modules, 1)
}

func TestScanDir(t *testing.T) {
	mod, err := ScanDir(filepath.Join("testdata", "gxsample"), "gx.sample")
	require.NoError(t, err)

	byName := make(map[string]Symbol)
	for _, s := range mod.Symbols {
		byName[s.Name] = s
	}

	assert.Equal(t, KindFunction, byName["Open"].Kind)
	assert.Equal(t, KindFunction, byName["Version"].Kind)
	assert.Equal(t, KindClass, byName["Table"].Kind)
	assert.Equal(t, KindException, byName["TableError"].Kind)
	assert.NotContains(t, byName, "hidden")
	assert.NotContains(t, byName, "TestOnly")
	require.Len(t, byName["Table"].Members, 1)
	assert.Equal(t, "Keys", byName["Table"].Members[0].Name)

	versions := Collect(&Package{Name: "gx", Modules: []Module{mod}}, mustVersion(t, "8.5")).Versions()
	require.Len(t, versions, 3)
	assert.Equal(t, "9.4", versions[0].Label())
	assert.Equal(t, []string{":exc:`gx.sample.TableError`"}, refs(versions[0].Classes))
	assert.Equal(t, []string{":func:`gx.sample.Version`"}, refs(versions[0].Functions))
	assert.Equal(t, []string{":func:`gx.sample.Table.Keys`"}, refs(versions[1].Functions))
	assert.Equal(t, []string{":class:`gx.sample.Table`"}, refs(versions[2].Classes))
	assert.Equal(t, []string{":func:`gx.sample.Open`"}, refs(versions[2].Functions))
}

func TestScanDir_Errors(t *testing.T) {
	_, err := ScanDir(filepath.Join("testdata", "missing"), "x")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeResource))

	_, err = ScanDir(t.TempDir(), "x")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeResource))

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "bad.go", "package bad\nfunc {")
	_, err = ScanDir(dir, "x")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

const expectedPage = `.. _version_history:

Version History
===============

Geosoft GX Python
-----------------

9.3.1
^^^^^

Functions:

* :func:` + "`geosoft.gxpy.dataframe.GXdf.to_csv`" + `

9.2
^^^

Classes:

* :class:` + "`geosoft.gxpy.dataframe.GXdf`" + `
* :exc:` + "`geosoft.gxpy.dataframe.DfException`" + `

Functions:

* :func:` + "`geosoft.gxpy.dataframe.table_column`" + `
* :func:` + "`geosoft.gxpy.dataframe.table_record`" + `
`

func newTestGenerator(t *testing.T, templateDir string) *Generator {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	g, err := NewGenerator(
		config.DocsConfig{MinVersion: "8.5"},
		&config.Paths{DocsDir: t.TempDir(), TemplateDir: templateDir},
		logger, nil)
	require.NoError(t, err)
	return g
}

func TestRenderPage(t *testing.T) {
	g := newTestGenerator(t, "")
	assert.Equal(t, "builtin", g.Renderer.Source())

	page, err := g.RenderPage(context.Background(), loadGxpy(t))
	require.NoError(t, err)
	assert.Equal(t, expectedPage, string(page))
}

func TestRenderPage_CustomTemplate(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, config.HistoryTemplateName,
		"{{range .Packages}}{{.Title}}:{{range .Versions}} {{.Label}}{{end}}{{end}}\n")

	g := newTestGenerator(t, dir)
	assert.Equal(t, filepath.Join(dir, config.HistoryTemplateName), g.Renderer.Source())

	page, err := g.RenderPage(context.Background(), loadGxpy(t))
	require.NoError(t, err)
	assert.Equal(t, "Geosoft GX Python: 9.3.1 9.2\n", string(page))
}

func TestNewRenderer_BadTemplate(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, config.HistoryTemplateName, "{{range}")

	_, err := NewRenderer(dir)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestNewGenerator_BadFloor(t *testing.T) {
	_, err := NewGenerator(config.DocsConfig{MinVersion: "x.y"}, &config.Paths{}, nil, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestGenerate(t *testing.T) {
	g := newTestGenerator(t, "")

	path, err := g.Generate(context.Background(), loadGxpy(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(g.OutputDir, config.HistoryFileName), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expectedPage, string(content))
}

func TestGoldenRenderer(t *testing.T) {
	g := newTestGenerator(t, "")
	pkgs := []*Package{loadGxpy(t)}

	h := &golden.Harness{Root: t.TempDir(), PrimaryExt: ".rst", DescriptorExt: ".xml"}
	ctx := context.Background()

	_, err := h.Check(ctx, config.HistoryFileName, g.GoldenRenderer(pkgs...), true)
	require.NoError(t, err)

	res, err := h.Check(ctx, config.HistoryFileName, g.GoldenRenderer(pkgs...))
	require.NoError(t, err)

	descriptor, err := os.ReadFile(res.Descriptor)
	require.NoError(t, err)
	assert.Contains(t, string(descriptor), `<history floor="8.5">`)
	assert.Contains(t, string(descriptor), `<version number="9.2" classes="2" functions="2"></version>`)

	page, err := os.ReadFile(res.Primary)
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte(expectedPage), page))

	// a different symbol set no longer matches master
	extra := &Package{Name: "extra", Modules: []Module{{Name: "m", Symbols: []Symbol{
		{Name: "f", Kind: KindFunction, Doc: ".. versionadded:: 9.9"},
	}}}}
	_, err = h.Check(ctx, config.HistoryFileName, g.GoldenRenderer(append(pkgs, extra)...))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "differ"))
}

func TestGoldenRenderer_CollectsOnce(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	g, err := NewGenerator(
		config.DocsConfig{MinVersion: "8.5"},
		&config.Paths{DocsDir: t.TempDir()},
		logger, nil)
	require.NoError(t, err)

	h := &golden.Harness{Root: t.TempDir(), PrimaryExt: ".rst", DescriptorExt: ".xml"}
	_, err = h.Check(context.Background(), config.HistoryFileName, g.GoldenRenderer(loadGxpy(t)), true)
	require.NoError(t, err)

	collected := 0
	for _, r := range handler.GetRecords() {
		if r.Message == "Collected version history" {
			collected++
		}
	}
	assert.Equal(t, 1, collected)
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Version history written")
}
