// Package exporter writes frames and other tabular data to files.
//
// CSVWriter writes plain CSV, optionally with a UTF-8 BOM for Excel, and
// table files in the '/'-comment layout the ltb package reads. XLSXWriter
// writes single-sheet Excel workbooks with excelize.
//
//	w := exporter.NewCSVWriter(outDir, logger)
//	err := w.WriteTable("rockcode_subset.csv", frame, "exported by gxtable")
package exporter
