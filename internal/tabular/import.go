package tabular

import (
	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
)

// Import loads a workbook into m: first every aspect sheet's aspect and
// levels, then their relation grids, then the consequence sheet. The
// returned outcome holds the writes of all grid assertions; collisions do
// not stop the import.
func Import(m *eudoxa.Model, wb *Workbook) (eudoxa.Outcome, error) {
	var out eudoxa.Outcome
	sheets := wb.AspectSheets()
	for _, s := range sheets {
		if err := ImportAspect(m, s); err != nil {
			return out, err
		}
	}
	for _, s := range sheets {
		o, err := ImportRelations(m, s)
		out.Adds = append(out.Adds, o.Adds...)
		out.Collisions = append(out.Collisions, o.Collisions...)
		if err != nil {
			return out, err
		}
	}
	if s := wb.Sheet(ConsequencesSheet); s != nil {
		if err := ImportConsequences(m, s); err != nil {
			return out, err
		}
	}
	return out, nil
}

// ImportAspect creates the aspect of an |ASP| sheet and its levels. An
// existing aspect of the same kind is extended.
func ImportAspect(m *eudoxa.Model, s *Sheet) error {
	name := s.Cell(0, 0)
	if name == "" {
		return errors.NewInvalidRequest("sheet %q: A1 holds no aspect name", s.Name)
	}
	kind, err := eudoxa.ParseKind(s.Cell(0, 1))
	if err != nil {
		return errors.Wrapf(err, "sheet %q", s.Name)
	}
	if err := ensureAspect(m, name, kind, s.Cell(1, 0)); err != nil {
		return errors.Wrapf(err, "sheet %q", s.Name)
	}

	for row := gridFirstRow; ; row++ {
		level := s.Cell(row, 0)
		if level == "" {
			break
		}
		if _, err := m.AddLevel(name, level, s.Cell(row, 1)); err != nil {
			return errors.Wrapf(err, "sheet %q row %d", s.Name, row+1)
		}
	}
	return nil
}

// ImportRelations asserts the non-empty cells of an aspect sheet's
// relation grid. Blank cells leave the facts as they are.
func ImportRelations(m *eudoxa.Model, s *Sheet) (eudoxa.Outcome, error) {
	var out eudoxa.Outcome
	name := s.Cell(0, 0)
	if _, err := m.Aspect(name); err != nil {
		return out, errors.Wrapf(err, "sheet %q", s.Name)
	}

	width := 0
	if gridHeaderRow < len(s.Rows) {
		width = len(s.Rows[gridHeaderRow])
	}
	for row := gridFirstRow; row < len(s.Rows); row++ {
		la := s.Cell(row, gridLabelCol)
		if la == "" {
			continue
		}
		for col := gridFirstCol; col < width; col++ {
			lb := s.Cell(gridHeaderRow, col)
			cell := s.Cell(row, col)
			if lb == "" || cell == "" || la == lb {
				continue
			}
			rel, err := eudoxa.ParseLevelRelation(cell)
			if err != nil {
				return out, errors.Wrapf(err, "sheet %q row %d", s.Name, row+1)
			}
			o, err := m.SetLevelRelation(name, la, rel, lb)
			if err != nil {
				return out, errors.Wrapf(err, "sheet %q row %d", s.Name, row+1)
			}
			out.Adds = append(out.Adds, o.Adds...)
			out.Collisions = append(out.Collisions, o.Collisions...)
		}
	}
	return out, nil
}

// ImportConsequences binds the named consequences of a |CONS| sheet.
// Aspects named in its header that the model lacks are created with the
// kind from row 2, text when blank. Blank level cells stay undefined.
func ImportConsequences(m *eudoxa.Model, s *Sheet) error {
	var aspects []string
	for col := 1; ; col++ {
		name := s.Cell(0, col)
		if name == "" {
			break
		}
		kind, err := eudoxa.ParseKind(s.Cell(1, col))
		if err != nil {
			return errors.Wrapf(err, "sheet %q column %d", s.Name, col+1)
		}
		if err := ensureAspect(m, name, kind, ""); err != nil {
			return errors.Wrapf(err, "sheet %q", s.Name)
		}
		aspects = append(aspects, name)
	}

	for row := 2; ; row++ {
		name := s.Cell(row, 0)
		if name == "" {
			return nil
		}
		levels := make(map[string]string, len(aspects))
		for j, a := range aspects {
			levels[a] = s.Cell(row, 1+j)
		}
		nc := eudoxa.NamedConsequence{Name: name, Levels: levels}
		if err := m.RestoreConsequence(nc); err != nil {
			return errors.Wrapf(err, "sheet %q row %d", s.Name, row+1)
		}
	}
}

func ensureAspect(m *eudoxa.Model, name string, kind eudoxa.Kind, description string) error {
	a, err := m.Aspect(name)
	if err != nil {
		_, err = m.AddAspect(name, kind, description)
		return err
	}
	if a.Kind() != kind {
		return errors.Wrapf(errors.ErrSchemaMismatch,
			"aspect %q is %s, sheet says %s", name, a.Kind(), kind)
	}
	return nil
}
