package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"lecture-backend/internal/domains/lecture/model"
)

const exportSheet = "Lectures"

var exportHeaders = []string{
	"ID",
	"Version",
	"Name",
	"Instructor",
	"Building",
	"Room",
	"Owner",
	"Created At",
	"Updated At",
}

func (s *lectureService) Export(ctx context.Context, w io.Writer) error {
	lectures, err := s.Find(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list lectures: %w", err)
	}

	f, err := buildLecturesExcelFile(lectures)
	if err != nil {
		return fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}

	log.Debug().Int("rows", len(lectures)).Msg("Lectures exported")
	return nil
}

func buildLecturesExcelFile(lectures []*model.Lecture) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	// Row 1: header
	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	// Data rows start at row 2
	for i, l := range lectures {
		row := model.NewLectureSummary(l)
		values := []any{
			row.ID.String(),
			row.Version,
			row.Name,
			row.Instructor,
			row.Building,
			row.RoomNumber,
			row.Owner,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
			row.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(exportSheet, cell, v)
		}
	}

	return f, nil
}
