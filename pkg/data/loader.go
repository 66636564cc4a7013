package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// missingTokens are the cell values read as an absent observation.
var missingTokens = map[string]struct{}{"": {}, "NA": {}, "NaN": {}, ".": {}}

func isMissingToken(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// LoadCSV reads a headed CSV file into a Dataset.
func LoadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(bufio.NewReader(file))
}

// ReadCSV reads a headed CSV stream into a Dataset. A column whose present
// cells all parse as numbers is numeric; any other column is categorical.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, SchemaError(StageLoad, "", "empty input, want a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, SchemaError(StageLoad, "", "header cell %d is empty", i+1)
		}
		if _, dup := seen[h]; dup {
			return nil, SchemaError(StageLoad, h, "duplicate header")
		}
		seen[h] = struct{}{}
		header[i] = h
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}

	ds := New(len(records))
	for j, name := range header {
		cells := make([]string, len(records))
		for i, rec := range records {
			cells[i] = strings.TrimSpace(rec[j])
		}
		if values, ok := parseNumeric(cells); ok {
			err = ds.SetColumn(name, values)
		} else {
			for i, c := range cells {
				if isMissingToken(c) {
					cells[i] = ""
				}
			}
			err = ds.SetLabels(name, cells)
		}
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func parseNumeric(cells []string) ([]float64, bool) {
	values := make([]float64, len(cells))
	for i, c := range cells {
		if isMissingToken(c) {
			values[i] = Missing
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
