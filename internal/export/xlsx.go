// Package export renders a user's grades as a spreadsheet.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/panita-ciencia/aula/internal/store"
)

const gradesSheet = "Grades"

// GradesWorkbook builds an xlsx workbook with one row per graded lesson,
// ordered by lesson slug. The caller owns the file and should Close it.
func GradesWorkbook(username string, grades map[string]store.Grade) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", gradesSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	headers := []any{"Lesson", "Score", "Total", "Updated"}
	if err := f.SetSheetRow(gradesSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	slugs := make([]string, 0, len(grades))
	for slug := range grades {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for i, slug := range slugs {
		g := grades[slug]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		row := []any{g.LessonSlug, g.Score, g.Total, g.UpdatedAt.Format("2006-01-02 15:04:05")}
		if err := f.SetSheetRow(gradesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row for %s: %w", slug, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Grades for %s", username),
		Creator: "aula",
	}); err != nil {
		return nil, fmt.Errorf("setting doc properties: %w", err)
	}
	return f, nil
}
