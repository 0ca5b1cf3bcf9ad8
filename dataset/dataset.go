// Package dataset reads and writes the CSV generation logs the scorers
// consume, and applies the shared refusal filter.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/datar-psa/genfair/api"
)

// Column names of the generation-log and template tables.
const (
	ColTemplateIndex = "template_index"
	ColPronounFamily = "pronoun_family"
	ColTemplate      = "template"
	ColGenerated     = "generated_sentences"
	ColState         = "state"
	ColSimpleAnswer  = "simple_answer"
)

var (
	// ErrMissingColumn is returned when an input table lacks a required column
	ErrMissingColumn = errors.New("required column is missing from input table")
	// ErrEmptyTable is returned when a table has no data rows
	ErrEmptyTable = errors.New("input table has no rows")
)

// RefusalPrefixes marks generations where the model declined to answer.
// Records starting with any of these are dropped before scoring. The list is
// process-wide read-only configuration.
var RefusalPrefixes = []string{
	"I'm sorry",
	"I am sorry",
	"It looks like",
	"It seems like",
	"I understand",
}

// FilterRefusals drops records whose generated text is empty or starts with
// refusal boilerplate. The input slice is not modified.
func FilterRefusals(records []api.Record) []api.Record {
	kept := make([]api.Record, 0, len(records))
	for _, rec := range records {
		if rec.Generated == "" || isRefusal(rec.Generated) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func isRefusal(text string) bool {
	for _, prefix := range RefusalPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

// ReadRecords loads a CSV table into records, resolving columns by header
// name. required lists the columns the caller needs beyond template_index
// and pronoun_family; a missing one fails before any rows are parsed.
// Unknown columns (such as an exported row index) are ignored.
func ReadRecords(path string, required ...string) ([]api.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range append([]string{ColTemplateIndex, ColPronounFamily}, required...) {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, name, path)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []api.Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s line %d: %w", path, line, err)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(field(row, ColTemplateIndex)))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad %s: %w", path, line, ColTemplateIndex, err)
		}
		records = append(records, api.Record{
			TemplateIndex: idx,
			PronounFamily: field(row, ColPronounFamily),
			Template:      field(row, ColTemplate),
			Generated:     field(row, ColGenerated),
			State:         field(row, ColState),
			SimpleAnswer:  field(row, ColSimpleAnswer),
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}
	return records, nil
}

// WriteRecords writes a generation log. State and simple_answer columns are
// emitted only when some record carries them, so template files round-trip
// without growing empty columns.
func WriteRecords(path string, records []api.Record) error {
	hasState, hasAnswer := false, false
	for _, rec := range records {
		if rec.State != "" {
			hasState = true
		}
		if rec.SimpleAnswer != "" {
			hasAnswer = true
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{ColTemplateIndex, ColPronounFamily, ColTemplate, ColGenerated}
	if hasState {
		header = append(header, ColState)
	}
	if hasAnswer {
		header = append(header, ColSimpleAnswer)
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header of %s: %w", path, err)
	}
	for _, rec := range records {
		row := []string{strconv.Itoa(rec.TemplateIndex), rec.PronounFamily, rec.Template, rec.Generated}
		if hasState {
			row = append(row, rec.State)
		}
		if hasAnswer {
			row = append(row, rec.SimpleAnswer)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
