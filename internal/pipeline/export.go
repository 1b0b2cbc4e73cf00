package pipeline

import (
	"bufio"
	"fmt"
	"go-etl-pipeline/internal/model"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sink persists a ResultTable. Implementations must treat a nil table as
// "nothing to write" and leave the destination untouched.
type Sink interface {
	Write(table *model.ResultTable) (written bool, err error)
}

// CSVSink writes a ResultTable to a single CSV file
type CSVSink struct {
	Path string
}

// Write implements Sink
func (s CSVSink) Write(table *model.ResultTable) (bool, error) {
	return WriteCSV(s.Path, table)
}

// WriteCSV writes header plus one row per table row to path, overwriting any existing file.
// The write is not atomic: a crash mid-write leaves a partial file.
func WriteCSV(path string, table *model.ResultTable) (bool, error) {
	if table == nil {
		return false, nil
	}

	// Create directory if it doesn't exist
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	if err := writeRecord(writer, model.ResultColumns); err != nil {
		return false, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		if err := writeRecord(writer, row.Strings()); err != nil {
			return false, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return false, fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("failed to close file: %w", err)
	}
	return true, nil
}

// writeRecord writes one CSV line terminated by \n. A field is quoted only when it
// contains a comma, a double quote, CR or LF; leading spaces are kept bare.
func writeRecord(w io.StringWriter, fields []string) error {
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if !strings.ContainsAny(field, ",\"\r\n") {
			b.WriteString(field)
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	_, err := w.WriteString(b.String())
	return err
}
