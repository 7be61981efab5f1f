package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"callforscience/models"
)

// CSVWriter writes listings back out with the source header names, so an
// export can be fed to the proxy or the CLI again.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w, err := newCSVWriter(f, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// NewCSVStreamWriter writes to an arbitrary stream; Close does not close it.
func NewCSVStreamWriter(out io.Writer) (*CSVWriter, error) {
	return newCSVWriter(out, nil)
}

func newCSVWriter(out io.Writer, closer io.Closer) (*CSVWriter, error) {
	w := csv.NewWriter(out)
	if err := w.Write(models.Columns); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	return &CSVWriter{closer: closer, writer: w}, nil
}

// Write appends one row per listing in models.Columns order.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.Journal,
			l.Topics,
			l.TopicsEN,
			l.Fee,
			l.Quartile,
			l.Abstract,
			l.DeadlineRaw,
			l.CFPName,
			l.Link,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if c.closer == nil {
		return c.writer.Error()
	}
	return c.closer.Close()
}
