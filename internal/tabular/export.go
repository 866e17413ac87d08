package tabular

import (
	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
)

// Grid anchors of an aspect sheet.
const (
	gridHeaderRow = 1 // row 2
	gridFirstRow  = 2 // row 3
	gridLabelCol  = 3 // column D
	gridFirstCol  = 4 // column E
)

const zeroDiffHeader = "(*,*)"

// Export renders every sheet of m: one |ASP| sheet per aspect, then
// |CONS|, |DOM| and |VDCM|.
func Export(m *eudoxa.Model) (*Workbook, error) {
	wb := &Workbook{}
	for _, name := range m.AspectNames() {
		s, err := ExportAspect(m, name)
		if err != nil {
			return nil, err
		}
		wb.Put(s)
	}
	wb.Put(ExportConsequences(m))
	dom, err := ExportDominance(m)
	if err != nil {
		return nil, err
	}
	wb.Put(dom)
	wb.Put(ExportMatrix(m))
	return wb, nil
}

// ExportAspect renders an aspect with its levels and relation grid.
func ExportAspect(m *eudoxa.Model, name string) (*Sheet, error) {
	a, err := m.Aspect(name)
	if err != nil {
		return nil, err
	}
	ids, grid, err := m.RelationGrid(name)
	if err != nil {
		return nil, errors.Wrapf(err, "relation grid of %q", name)
	}

	s := &Sheet{Name: AspectPrefix + name}
	s.Set(0, 0, a.Name())
	s.Set(0, 1, string(a.Kind()))
	s.Set(1, 0, a.Description())
	for i, l := range a.Levels() {
		s.Set(gridFirstRow+i, 0, cellValue(a.Kind(), l.ID))
		s.Set(gridFirstRow+i, 1, l.Description)
	}

	for j, id := range ids {
		s.Set(gridHeaderRow, gridFirstCol+j, cellValue(a.Kind(), id))
	}
	for i, id := range ids {
		s.Set(gridFirstRow+i, gridLabelCol, cellValue(a.Kind(), id))
		for j := range ids {
			if rel := grid[i][j]; rel != eudoxa.RelUnknown {
				s.Set(gridFirstRow+i, gridFirstCol+j, rel.String())
			}
		}
	}
	return s, nil
}

// ExportConsequences renders the named consequences. Undefined levels are
// left blank.
func ExportConsequences(m *eudoxa.Model) *Sheet {
	s := &Sheet{Name: ConsequencesSheet}
	aspects := m.Aspects()
	for j, a := range aspects {
		s.Set(0, 1+j, a.Name())
		s.Set(1, 1+j, string(a.Kind()))
	}
	for i, nc := range m.Consequences() {
		s.Set(2+i, 0, nc.Name)
		for j, a := range aspects {
			if l := nc.Levels[a.Name()]; l != "" {
				s.Set(2+i, 1+j, cellValue(a.Kind(), l))
			}
		}
	}
	return s
}

// ExportDominance renders one row per dominance edge between named
// consequences.
func ExportDominance(m *eudoxa.Model) (*Sheet, error) {
	t, err := m.DominanceTable()
	if err != nil {
		return nil, err
	}
	s := &Sheet{Name: DominanceSheet, Rows: [][]any{
		{"From Type", "From Name", "Edge Type", "To Type", "To Name"},
	}}
	for _, p := range t.Dominates {
		s.Rows = append(s.Rows, []any{"Consequence", p.From, "DOM", "Consequence", p.To})
	}
	return s, nil
}

// ExportMatrix dumps the comparison matrix: column headers in rows 2 and 3
// from column D, row headers in columns B and C from row 4.
func ExportMatrix(m *eudoxa.Model) *Sheet {
	s := &Sheet{Name: MatrixSheet}
	s.Set(2, 2, "Δ\\Δ")

	var diffs []eudoxa.VDiff
	col := 3
	for _, a := range m.Aspects() {
		s.Set(1, col, a.Name())
		for _, d := range a.Diffs() {
			s.Set(2, col, diffHeader(d))
			diffs = append(diffs, d)
			col++
		}
	}

	row := 3
	for _, a := range m.Aspects() {
		s.Set(row, 1, a.Name())
		for _, d1 := range a.Diffs() {
			s.Set(row, 2, diffHeader(d1))
			for j, d2 := range diffs {
				if v := m.Matrix().Get(d1, d2); v != eudoxa.Unknown {
					s.Set(row, 3+j, v.String())
				}
			}
			row++
		}
	}
	return s
}

func diffHeader(d eudoxa.VDiff) string {
	if d.NaturalZero() {
		return zeroDiffHeader
	}
	return "(" + d.From + "," + d.To + ")"
}

// cellValue writes numeric levels as numbers.
func cellValue(k eudoxa.Kind, level string) any {
	if k == eudoxa.KindText {
		return level
	}
	v, err := k.Materialize(level)
	if err != nil {
		return level
	}
	return v
}
