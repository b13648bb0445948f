// Package xlsx renders the text cells of a workbook through the template
// engine, so report templates can carry placeholders such as
// "Period #m-1#/#y#" in their headers.
package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/LingHeChen/datevar/date"
	"github.com/LingHeChen/datevar/eval"
	"github.com/LingHeChen/datevar/lexer"
)

// Report summarizes one rendering pass
type Report struct {
	Sheets  int // sheets visited
	Cells   int // text cells inspected
	Changed int // cells rewritten
}

// RenderWorkbook renders the workbook at in and saves the result to out
func RenderWorkbook(in, out string, r *eval.Renderer, base date.Date) (Report, error) {
	f, err := excelize.OpenFile(in)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	report, err := RenderFile(f, r, base)
	if err != nil {
		return report, err
	}
	if err := f.SaveAs(out); err != nil {
		return report, fmt.Errorf("failed to save workbook: %w", err)
	}
	return report, nil
}

// RenderFile renders every text cell of f in place. Formulas, numbers and
// cells without placeholders are left alone.
func RenderFile(f *excelize.File, r *eval.Renderer, base date.Date) (Report, error) {
	if r == nil {
		r = eval.NewRenderer()
	}
	var report Report
	for _, sheet := range f.GetSheetList() {
		report.Sheets++
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return report, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		for i, row := range rows {
			for j, value := range row {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return report, err
				}
				ok, err := isText(f, sheet, cell)
				if err != nil {
					return report, fmt.Errorf("sheet %q cell %s: %w", sheet, cell, err)
				}
				if !ok {
					continue
				}
				report.Cells++
				if !strings.ContainsRune(value, lexer.Delimiter) {
					continue
				}
				rendered := r.RenderString(value, base)
				if rendered == value {
					continue
				}
				// SetCellStr keeps the cell style
				if err := f.SetCellStr(sheet, cell, rendered); err != nil {
					return report, fmt.Errorf("sheet %q cell %s: %w", sheet, cell, err)
				}
				report.Changed++
			}
		}
	}
	return report, nil
}

func isText(f *excelize.File, sheet, cell string) (bool, error) {
	formula, err := f.GetCellFormula(sheet, cell)
	if err != nil {
		return false, err
	}
	if formula != "" {
		return false, nil
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return false, err
	}
	return typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString, nil
}
