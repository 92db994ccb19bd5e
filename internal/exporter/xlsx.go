package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"gxkit/internal/config"
)

const defaultSheet = "Sheet1"

// XLSXWriter exports tabular data to Excel workbooks
type XLSXWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewXLSXWriter creates an XLSX writer. Relative paths resolve against baseDir.
func NewXLSXWriter(baseDir string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{baseDir: baseDir, logger: logger}
}

// WriteTable writes t to a single-sheet workbook with a frozen header row.
// An empty sheet name keeps the excelize default.
func (w *XLSXWriter) WriteTable(filePath, sheet string, t Tabular) error {
	fullPath := filePath
	if !filepath.IsAbs(filePath) && w.baseDir != "" {
		fullPath = filepath.Join(w.baseDir, filePath)
	}

	rows := t.Rows()
	w.logger.Info("Writing XLSX file",
		slog.String("full_path", fullPath),
		slog.String("sheet", sheet),
		slog.Int("record_count", len(rows)))

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = defaultSheet
	} else if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := t.Header()
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), config.DirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ReadSheet reads every row of a workbook sheet. An empty sheet name reads
// the first sheet.
func ReadSheet(filePath, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", filePath)
		}
		sheet = sheets[0]
	}
	return f.GetRows(sheet)
}
