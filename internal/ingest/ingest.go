// Package ingest reads validation batches from upload payloads. Two
// formats are accepted: a JSON object mapping sample type to record
// lists, and an XLSX workbook with one sheet per sample type. A payload
// that cannot be shaped into a batch is the one fatal intake error.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"biovalid/pkg/domain"
)

// Batch is a parsed upload: records grouped by sample type.
type Batch map[string][]domain.SampleRecord

// ReadJSON decodes a batch from a JSON object of the form
// {"sample_type": [{...}, ...]}.
func ReadJSON(r io.Reader) (Batch, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("batch must be a JSON object keyed by sample type: %w", err)
	}

	batch := make(Batch, len(raw))
	for sampleType, payload := range raw {
		var records []domain.SampleRecord
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, fmt.Errorf("sample type %s: records must be a list of objects: %w", sampleType, err)
		}
		batch[sampleType] = records
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("batch contains no sample types")
	}
	return batch, nil
}

// ReadXLSX decodes a batch from a workbook: each sheet is one sample
// type, the first row carries field names, and every following non-empty
// row is one record. A header repeated across columns (multiple Child Of
// columns) accumulates its cells into a list value.
func ReadXLSX(r io.Reader) (Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	batch := make(Batch)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		header := rows[0]
		sampleType := normalizeSheetName(sheet)
		for _, row := range rows[1:] {
			rec := rowToRecord(header, row)
			if len(rec) == 0 {
				continue
			}
			batch[sampleType] = append(batch[sampleType], rec)
		}
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("workbook contains no data rows")
	}
	return batch, nil
}

func rowToRecord(header, row []string) domain.SampleRecord {
	rec := make(domain.SampleRecord)
	for i, field := range header {
		field = strings.TrimSpace(field)
		if field == "" || i >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}
		switch existing := rec[field].(type) {
		case nil:
			rec[field] = value
		case string:
			rec[field] = []string{existing, value}
		case []string:
			rec[field] = append(existing, value)
		}
	}
	return rec
}

// normalizeSheetName maps sheet titles like "Specimen From Organism" to
// the canonical snake_case sample type.
func normalizeSheetName(sheet string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(sheet)), " ", "_")
}
