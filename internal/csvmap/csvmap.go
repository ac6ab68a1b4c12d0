// Package csvmap turns raw delimited text plus a user-supplied column
// mapping into normalized contestant rows.
package csvmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"raffle/internal/models"
)

// Row is one mapped data row. No filtering happens at this layer; rows with
// empty names or tickets are passed through and it is the consumer's policy
// whether to keep them.
type Row struct {
	Name   string
	Ticket string
	Email  string
	Extra  map[string]string
}

// Delimiters accepted in a ColumnMapping.
var delimiters = map[string]rune{
	",":  ',',
	";":  ';',
	"\t": '\t',
	"|":  '|',
}

// DelimiterRune validates a mapping delimiter. An empty delimiter defaults
// to a comma.
func DelimiterRune(d string) (rune, error) {
	if d == "" {
		return ',', nil
	}
	r, ok := delimiters[d]
	if !ok {
		return 0, fmt.Errorf("unsupported delimiter %q", d)
	}
	return r, nil
}

// Parse maps rawText into rows using the given column mapping. A column
// identifier that does not resolve to an existing column yields an empty
// string for that field rather than failing the import; each unresolved
// identifier is reported once in the returned warnings.
func Parse(rawText string, mapping models.ColumnMapping) ([]Row, []string, error) {
	delim, err := DelimiterRune(mapping.Delimiter)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(strings.NewReader(rawText))
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	var header []string
	if mapping.HasHeaderRow {
		first, err := reader.Read()
		if err == io.EOF {
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading header row: %w", err)
		}
		header = make([]string, len(first))
		for i, h := range first {
			header[i] = strings.TrimSpace(h)
		}
	}

	res := newResolver(header, mapping.HasHeaderRow)

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading record: %w", err)
		}

		row := Row{
			Name:   res.field(record, mapping.NameColumn),
			Ticket: res.field(record, mapping.TicketColumn),
		}
		if mapping.EmailColumn != "" {
			row.Email = res.field(record, mapping.EmailColumn)
		}
		if len(mapping.ExtraColumns) > 0 {
			row.Extra = make(map[string]string, len(mapping.ExtraColumns))
			for name, col := range mapping.ExtraColumns {
				row.Extra[name] = res.field(record, col)
			}
		}
		rows = append(rows, row)
	}

	return rows, res.warnings(), nil
}

// Headers returns the first row's fields, trimmed. It is used to populate
// mapping-selection UI and ignores whether the text actually has a header.
func Headers(rawText string, delimiter string) ([]string, error) {
	delim, err := DelimiterRune(delimiter)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(rawText))
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	headers := make([]string, len(first))
	for i, h := range first {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, nil
}

// resolver maps column identifiers to record indexes, by header name or by
// 1-based position, and remembers which identifiers never resolved.
type resolver struct {
	byName     map[string]int
	positional bool
	unresolved map[string]bool
}

func newResolver(header []string, hasHeader bool) *resolver {
	r := &resolver{
		positional: !hasHeader,
		unresolved: make(map[string]bool),
	}
	if hasHeader {
		r.byName = make(map[string]int, len(header))
		for i, h := range header {
			if _, exists := r.byName[h]; !exists {
				r.byName[h] = i
			}
		}
	}
	return r
}

func (r *resolver) field(record []string, identifier string) string {
	if identifier == "" {
		return ""
	}

	var idx int
	if r.positional {
		n, err := strconv.Atoi(strings.TrimSpace(identifier))
		if err != nil || n < 1 {
			r.unresolved[identifier] = true
			return ""
		}
		idx = n - 1
	} else {
		n, ok := r.byName[strings.TrimSpace(identifier)]
		if !ok {
			r.unresolved[identifier] = true
			return ""
		}
		idx = n
	}

	if idx >= len(record) {
		return ""
	}
	return record[idx]
}

func (r *resolver) warnings() []string {
	if len(r.unresolved) == 0 {
		return nil
	}
	warnings := make([]string, 0, len(r.unresolved))
	for id := range r.unresolved {
		warnings = append(warnings, fmt.Sprintf("column %q could not be resolved; the mapped field was left empty", id))
	}
	return warnings
}
