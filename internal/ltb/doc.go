// Package ltb reads Geosoft-style table resources.
//
// A table file is delimited text. Lines starting with '/' are comments and
// the first remaining line declares the fields. Field names are upper-cased
// with leading underscores removed, so "__DESCRIPTION" reads as
// "DESCRIPTION". Field 0 holds the record key; keys are case-sensitive and
// unique within a table.
//
// Store resolves a table name against an ordered list of search
// directories and parses the first match. Opening with a record key keeps
// only that record.
//
//	store := &ltb.Store{Dirs: paths.TableDirs}
//	t, err := store.Open("rockcode", "")
//	row, err := t.FindKey("bif")
//	desc := t.Value(row, 3)
package ltb
