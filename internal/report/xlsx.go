package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"medclaim/internal/domain"
)

const (
	sheetDocuments  = "Documents"
	sheetValidation = "Validation"
	sheetDecision   = "Decision"
)

// WriteXLSX writes the claim result as a workbook with one sheet each for the
// documents, the validation outcome and the decision.
func WriteXLSX(out io.Writer, resp *domain.ClaimProcessingResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetDocuments); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{sheetValidation, sheetDecision} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	docRows := make([][]string, 0, len(resp.Documents)+1)
	docRows = append(docRows, columns)
	for i := range resp.Documents {
		docRows = append(docRows, documentRow(&resp.Documents[i]))
	}
	if err := writeRows(f, sheetDocuments, docRows); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetDocuments, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	_ = f.SetColWidth(sheetDocuments, "A", "A", 28)
	_ = f.SetColWidth(sheetDocuments, "C", "I", 20)

	validation := [][]string{{"Kind", "Detail"}}
	for _, t := range resp.Validation.MissingDocuments {
		validation = append(validation, []string{"Missing Document", string(t)})
	}
	for _, d := range resp.Validation.Discrepancies {
		validation = append(validation, []string{"Discrepancy", d})
	}
	if err := writeRows(f, sheetValidation, validation); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetValidation, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	_ = f.SetColWidth(sheetValidation, "B", "B", 80)

	decision := [][]string{
		{"Status", string(resp.ClaimDecision.Status)},
		{"Reason", resp.ClaimDecision.Reason},
	}
	if err := writeRows(f, sheetDecision, decision); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetDecision, "B", "B", 80)

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
