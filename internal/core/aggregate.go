package core

// ValidateWorkbook runs the row validator over every row of every sheet and
// assembles the full validation report.
//
// Positions restart at 2 for each sheet (row 1 is the header), so an
// Issue's Row is only meaningful within its own sheet. Data flattens the
// sheets in workbook order with per-sheet row order preserved; invalid rows
// are included so callers can render them with their problems.
func ValidateWorkbook(sheets []SheetRows) ValidationReport {
	report := ValidationReport{
		Errors: []Issue{},
		Sheets: make([]string, 0, len(sheets)),
		Data:   []Row{},
	}

	for _, sheet := range sheets {
		report.Sheets = append(report.Sheets, sheet.Name)

		for i, row := range sheet.Rows {
			position := i + headerRowOffset

			if problems := ValidateRow(row); len(problems) > 0 {
				report.Errors = append(report.Errors, Issue{
					Sheet:    sheet.Name,
					Row:      position,
					RowID:    row.ID(),
					Problems: problems,
				})
			}

			row[FieldSheet] = sheet.Name
			report.Data = append(report.Data, row)
		}
	}

	return report
}
