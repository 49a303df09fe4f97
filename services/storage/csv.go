package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"sjsage522/deliveryscraper/pkg/errors"
)

// Table is a row source with a fixed header
type Table interface {
	Header() []string
	Rows() [][]string
}

// CSVWriter writes whole tables to CSV files, creating parent directories as needed.
// Each call writes a distinct file, so a single CSVWriter may be shared by workers.
type CSVWriter struct{}

// NewCSVWriter creates a CSVWriter
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteTable creates (or truncates) path and writes header followed by rows
func (w *CSVWriter) WriteTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorage(path, "create output dir", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewStorage(path, "create file", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		_ = f.Close()
		return errors.NewStorage(path, "write header", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		_ = f.Close()
		return errors.NewStorage(path, "write rows", err)
	}

	if err := f.Close(); err != nil {
		return errors.NewStorage(path, "close file", err)
	}
	return nil
}

// Write writes t to path
func (w *CSVWriter) Write(path string, t Table) error {
	return w.WriteTable(path, t.Header(), t.Rows())
}
