package main

import (
	"fmt"
	"os"

	"medclaim/internal/domain"
	"medclaim/internal/report"
)

func writeReport(path, format string, resp *domain.ClaimProcessingResponse) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report: %w", cerr)
		}
	}()

	switch format {
	case "xlsx":
		err = report.WriteXLSX(f, resp)
	default:
		err = report.WriteCSV(f, resp)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s report: %w", format, err)
	}
	return nil
}
