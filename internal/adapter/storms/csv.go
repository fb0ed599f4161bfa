package storms

import (
	"compress/bzip2"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/storm-damage-report/internal/domain"
)

// DatasetSource reads raw storm records from a NOAA bulk CSV, optionally
// bzip2-compressed.
type DatasetSource struct {
	client *Client
	source string
}

// NewDatasetSource creates a DatasetSource for the given path or URL.
func NewDatasetSource(client *Client, source string) *DatasetSource {
	return &DatasetSource{client: client, source: source}
}

// Records localizes the dataset and parses every row.
func (s *DatasetSource) Records(ctx context.Context) ([]domain.RawRecord, error) {
	path, err := s.client.Localize(ctx, s.source)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		r = bzip2.NewReader(f)
	}
	return parseRecords(r)
}

// Dataset columns the parser requires. Extra columns are ignored and
// column order does not matter.
var requiredColumns = []string{
	"EVTYPE", "STATE", "BGN_DATE",
	"INJURIES", "FATALITIES",
	"PROPDMG", "PROPDMGEXP", "CROPDMG", "CROPDMGEXP",
}

func parseRecords(r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("dataset missing column %s", col)
		}
	}

	get := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []domain.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		records = append(records, domain.RawRecord{
			EventType:         strings.TrimSpace(get(row, "EVTYPE")),
			State:             strings.TrimSpace(get(row, "STATE")),
			BeginDate:         parseDate(get(row, "BGN_DATE")),
			Injuries:          parseFloatOrZero(get(row, "INJURIES")),
			Fatalities:        parseFloatOrZero(get(row, "FATALITIES")),
			PropertyMagnitude: parseFloatOrZero(get(row, "PROPDMG")),
			PropertyUnit:      strings.TrimSpace(get(row, "PROPDMGEXP")),
			CropMagnitude:     parseFloatOrZero(get(row, "CROPDMG")),
			CropUnit:          strings.TrimSpace(get(row, "CROPDMGEXP")),
		})
	}
	return records, nil
}

// dateLayouts covers the formats seen across dataset vintages.
var dateLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2006-01-02",
}

// parseDate returns the zero time when no layout matches; aggregation
// treats such records as undated rather than dropping them.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseFloatOrZero is lenient: the bulk dataset has blank and malformed
// numeric cells, and a zero is the correct reading for those.
func parseFloatOrZero(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// VocabularySource reads event type vocabulary entries from a CSV with
// canonical_label, match_pattern_1, match_pattern_2 columns.
type VocabularySource struct {
	client *Client
	source string
}

// NewVocabularySource creates a VocabularySource for the given path or URL.
func NewVocabularySource(client *Client, source string) *VocabularySource {
	return &VocabularySource{client: client, source: source}
}

// Vocabulary localizes the vocabulary file and parses its entries in
// file order. Order is load-bearing: normalization takes the first
// matching entry.
func (s *VocabularySource) Vocabulary(ctx context.Context) ([]domain.VocabularyEntry, error) {
	path, err := s.client.Localize(ctx, s.source)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	return parseVocabulary(f)
}

func parseVocabulary(r io.Reader) ([]domain.VocabularyEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read vocabulary header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range []string{"canonical_label", "match_pattern_1", "match_pattern_2"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("vocabulary missing column %s", col)
		}
	}

	get := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var entries []domain.VocabularyEntry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read vocabulary row: %w", err)
		}
		label := get(row, "canonical_label")
		if label == "" {
			continue
		}
		entries = append(entries, domain.VocabularyEntry{
			Canonical: label,
			Pattern1:  get(row, "match_pattern_1"),
			Pattern2:  get(row, "match_pattern_2"),
		})
	}
	return entries, nil
}
