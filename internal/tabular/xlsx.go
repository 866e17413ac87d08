package tabular

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// WriteXLSX encodes wb as an .xlsx document. Sheet names are limited to 31
// characters, so aspect names longer than 25 are rejected.
func WriteXLSX(w io.Writer, wb *Workbook) error {
	if len(wb.Sheets) == 0 {
		return errors.NewInvalidRequest("workbook has no sheets")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := f.GetSheetName(0)
	for i, s := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(first, s.Name); err != nil {
				return errors.Wrapf(err, "sheet %q", s.Name)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return errors.Wrapf(err, "sheet %q", s.Name)
		}
		for r, row := range s.Rows {
			for c, v := range row {
				if v == nil || v == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(s.Name, cell, v); err != nil {
					return errors.Wrapf(err, "sheet %q cell %s", s.Name, cell)
				}
			}
		}
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write xlsx")
	}
	return nil
}

// ReadXLSX decodes an .xlsx document. Every cell is read as its displayed
// text.
func ReadXLSX(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "open xlsx"), "the file must be an Excel .xlsx workbook")
	}
	defer func() { _ = f.Close() }()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrapf(err, "read sheet %q", name)
		}
		s := &Sheet{Name: name, Rows: make([][]any, len(rows))}
		for i, row := range rows {
			s.Rows[i] = make([]any, len(row))
			for j, v := range row {
				s.Rows[i][j] = v
			}
		}
		wb.Sheets = append(wb.Sheets, s)
	}
	return wb, nil
}
