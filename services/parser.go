package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"callforscience/models"
	"callforscience/utils"
)

// ErrMissingColumns is returned when the CSV header lacks a required column.
var ErrMissingColumns = errors.New("csv header missing required columns")

// Parser turns raw CSV text into header-keyed rows.
type Parser struct {
	logger *utils.Logger
}

// NewParser creates a Parser with the given logger.
func NewParser(logger *utils.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse reads the header row and every data row from r. Blank rows are skipped,
// malformed records are logged and skipped, short rows get "" for missing cells.
func (p *Parser) Parse(r io.Reader) ([]*models.RawListing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("parser: %w: empty input", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("parser: read header: %w", err)
	}
	header = normaliseHeader(header)
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("parser: %w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []*models.RawListing
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				p.logger.Warn("[parser] Skipping malformed record at line %d: %v", pe.Line, pe.Err)
				continue
			}
			return nil, fmt.Errorf("parser: read record: %w", err)
		}
		if isBlank(record) {
			continue
		}

		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			} else {
				fields[name] = ""
			}
		}
		rows = append(rows, &models.RawListing{Line: line, Fields: fields})
	}

	p.logger.Debug("[parser] Parsed %d rows", len(rows))
	return rows, nil
}

func normaliseHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func missingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range models.Columns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
