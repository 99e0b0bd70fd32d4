package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/internal/repository"
)

var historyExportHeaders = []string{
	"Order No", "Stage", "Status", "Processed By", "Products", "Processed At",
}

// ExportService renders stage history as a spreadsheet for back-office use
type ExportService struct {
	repos *repository.Repositories
}

// NewExportService creates a new export service
func NewExportService(repos *repository.Repositories) *ExportService {
	return &ExportService{repos: repos}
}

// ExportHistory builds an XLSX workbook of the stage's history entries
func (s *ExportService) ExportHistory(ctx context.Context, stage domain.Stage, limit int) (*excelize.File, string, error) {
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}
	entries, err := s.repos.StageHistory.ListByStage(ctx, stage, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list history: %w", err)
	}

	f := excelize.NewFile()
	sheet := "History"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range historyExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, entry := range entries {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.OrderIdentifier)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.Stage.DisplayName())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), string(entry.Status))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), entry.ProcessedBy)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), entry.ProductCount)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), entry.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	filename := fmt.Sprintf("%s-history.xlsx", stage.Slug())
	return f, filename, nil
}
