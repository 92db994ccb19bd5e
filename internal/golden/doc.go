// Package golden implements golden-file regression checks.
//
// A Renderer writes a primary artifact and a descriptor for a source into
// <root>/result. Check compares each result file with its counterpart in
// <root>/master by xxhash checksum and returns a MismatchError listing every
// "X does not exist" and "X and Y differ" line. In update mode the results
// are copied over master instead.
package golden
