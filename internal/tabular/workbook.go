// Package tabular maps a model to and from spreadsheet workbooks.
//
// Sheet layouts:
//
//	|ASP| <aspect>  A1 name, B1 kind, A2 description, levels from row 3
//	                (A level, B description); the level relation grid has
//	                column headers in row 2 from column E and row headers in
//	                column D from row 3.
//	|CONS|          row 1 aspect names from column B, row 2 kinds, then one
//	                named consequence per row (A name, levels from B).
//	|DOM|           one row per dominance edge.
//	|VDCM|          the full diff comparison matrix, export only.
//
// Workbook is format neutral; xlsx.go reads and writes it as .xlsx.
package tabular

import (
	"fmt"
	"strings"
)

// Sheet names.
const (
	AspectPrefix      = "|ASP| "
	ConsequencesSheet = "|CONS|"
	DominanceSheet    = "|DOM|"
	MatrixSheet       = "|VDCM|"
)

// Sheet is a named grid of cell values. Rows may be ragged; missing cells
// read as empty.
type Sheet struct {
	Name string
	Rows [][]any
}

// Cell returns the cell at zero-based row and column as text.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	v := s.Rows[row][col]
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Set writes a cell, growing the grid as needed.
func (s *Sheet) Set(row, col int, v any) {
	for len(s.Rows) <= row {
		s.Rows = append(s.Rows, nil)
	}
	for len(s.Rows[row]) <= col {
		s.Rows[row] = append(s.Rows[row], nil)
	}
	s.Rows[row][col] = v
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet returns the sheet called name, or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Put adds s, replacing any sheet with the same name.
func (w *Workbook) Put(s *Sheet) {
	for i, cur := range w.Sheets {
		if cur.Name == s.Name {
			w.Sheets[i] = s
			return
		}
	}
	w.Sheets = append(w.Sheets, s)
}

// AspectSheets returns the |ASP| sheets in workbook order.
func (w *Workbook) AspectSheets() []*Sheet {
	var out []*Sheet
	for _, s := range w.Sheets {
		if strings.HasPrefix(s.Name, AspectPrefix) {
			out = append(out, s)
		}
	}
	return out
}
