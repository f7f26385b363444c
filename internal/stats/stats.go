// Package stats summarizes decoded sections as table rows.
package stats

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/wippyai/wasm-uasm/wasm"
)

// Row describes one decoded record.
type Row struct {
	Count  *uint32 `csv:"count,omitempty"`
	Kind   string  `csv:"kind"`
	Name   string  `csv:"name,omitempty"`
	ID     *int    `csv:"id,omitempty"`
	Index  int     `csv:"index"`
	Offset int     `csv:"offset"`
	Size   int     `csv:"size"`
}

// Header lists the CSV column names in output order.
func Header() ([]string, error) {
	return csvutil.Header(Row{}, "csv")
}

// Collect builds one row per record, in record order.
func Collect(sections []wasm.Section) []Row {
	rows := make([]Row, 0, len(sections))
	for i, s := range sections {
		r := s.Range()
		row := Row{
			Index:  i,
			Kind:   s.Kind().String(),
			Offset: r.Start,
			Size:   r.Len(),
		}
		if id, ok := s.Kind().ID(); ok {
			v := int(id)
			row.ID = &v
		}
		if n, ok := wasm.Count(s); ok {
			row.Count = &n
		}
		if c, ok := s.(*wasm.CustomSection); ok {
			row.Name = c.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV encodes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	csvWriter := csv.NewWriter(w)
	enc := csvutil.NewEncoder(csvWriter)
	if len(rows) == 0 {
		if err := enc.EncodeHeader(Row{}); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
