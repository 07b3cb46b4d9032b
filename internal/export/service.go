// Package export renders a recognition result as an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/structeng/takeoff/internal/common"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/recognizer"
)

const (
	sheetComponents = "Components"
	sheetConfidence = "Confidence"
	sheetValidation = "Validation"
)

// Service turns a recognizer.Result into XLSX bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteReport returns an XLSX workbook with three sheets: one row per
// accepted component, one per confidence record, and one per validation
// issue (plus the aggregate counts).
func (s *Service) WriteReport(res *recognizer.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()

	if err := s.writeComponents(f, res.Components); err != nil {
		return nil, err
	}
	if err := s.writeConfidence(f, res.Confidence); err != nil {
		return nil, err
	}
	if err := s.writeValidation(f, res.Validation); err != nil {
		return nil, err
	}

	// Drop excelize's default sheet and make Components active.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if idx, err := f.GetSheetIndex(sheetComponents); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.WrapError(err, "xlsx write")
	}

	s.logger.Info("export.xlsx.ok",
		"components", len(res.Components),
		"issues", len(res.Validation.Issues),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeComponents(f *excelize.File, components []entity.Component) error {
	if _, err := f.NewSheet(sheetComponents); err != nil {
		return err
	}
	headers := []string{
		"ID",
		"Type",
		"Name",
		"Width (mm)",
		"Height (mm)",
		"Length (mm)",
		"Diameter (mm)",
		"Quantity",
		"Volume (mm³)",
		"Material",
		"Strategy",
		"Source Text",
	}
	writeHeaders(f, sheetComponents, headers)

	row := 2
	for _, c := range components {
		write := cellWriter(f, sheetComponents, row)
		write(1, c.ID.String())
		write(2, string(c.Type))
		write(3, c.Name)
		writeDim(write, 4, c.Dimensions, entity.FieldWidth)
		writeDim(write, 5, c.Dimensions, entity.FieldHeight)
		writeDim(write, 6, c.Dimensions, entity.FieldLength)
		writeDim(write, 7, c.Dimensions, entity.FieldDiameter)
		write(8, c.Quantity)
		if v := c.Volume(); v > 0 {
			write(9, v)
		}
		write(10, c.Material)
		write(11, string(c.Meta.Strategy))
		write(12, truncate(c.SourceText(), 140))
		row++
	}

	_ = f.SetColWidth(sheetComponents, "A", "A", 38)
	_ = f.SetColWidth(sheetComponents, "B", "C", 16)
	_ = f.SetColWidth(sheetComponents, "D", "I", 14)
	_ = f.SetColWidth(sheetComponents, "J", "K", 16)
	_ = f.SetColWidth(sheetComponents, "L", "L", 48)
	return nil
}

func (s *Service) writeConfidence(f *excelize.File, records []entity.ConfidenceRecord) error {
	if _, err := f.NewSheet(sheetConfidence); err != nil {
		return err
	}
	headers := []string{"Component ID", "Name", "Score", "Passed", "Reasons", "Suggestions"}
	writeHeaders(f, sheetConfidence, headers)

	row := 2
	for _, r := range records {
		write := cellWriter(f, sheetConfidence, row)
		write(1, r.ComponentID.String())
		write(2, r.ComponentName)
		write(3, r.Score)
		write(4, r.Passed)
		write(5, strings.Join(r.Reasons, "; "))
		write(6, strings.Join(r.Suggestions, "; "))
		row++
	}

	_ = f.SetColWidth(sheetConfidence, "A", "A", 38)
	_ = f.SetColWidth(sheetConfidence, "B", "B", 20)
	_ = f.SetColWidth(sheetConfidence, "E", "F", 56)
	return nil
}

func (s *Service) writeValidation(f *excelize.File, result *entity.ValidationResult) error {
	if _, err := f.NewSheet(sheetValidation); err != nil {
		return err
	}

	summary := cellWriter(f, sheetValidation, 1)
	summary(1, fmt.Sprintf("total=%d passed=%d warnings=%d errors=%d",
		result.Total, result.Passed, result.Warnings, result.Errors))

	headers := []string{"Severity", "Component ID", "Type", "Category", "Message", "Suggestion"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetValidation, cell, h)
	}

	row := 3
	for _, issue := range result.Issues {
		write := cellWriter(f, sheetValidation, row)
		write(1, string(issue.Severity))
		write(2, issue.ComponentID.String())
		write(3, string(issue.ComponentType))
		write(4, string(issue.Category))
		write(5, issue.Message)
		write(6, issue.Suggestion)
		row++
	}

	_ = f.SetColWidth(sheetValidation, "B", "B", 38)
	_ = f.SetColWidth(sheetValidation, "E", "F", 56)
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func cellWriter(f *excelize.File, sheet string, row int) func(col int, v any) {
	return func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func writeDim(write func(col int, v any), col int, d entity.DimensionSet, field entity.DimField) {
	if d.Has(field) {
		write(col, d.Get(field))
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}
