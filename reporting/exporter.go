// Package reporting сборка итогового отчета анализа и экспорт
// в JSON, CSV и Excel.
package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"vendoranalysis/consolidation"
	"vendoranalysis/normalization"
	"vendoranalysis/quality"
)

// ExportFormat формат экспорта
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// Report итог одного прогона анализа
type Report struct {
	GeneratedAt   string                                   `json:"generated_at"`
	VendorCount   int                                      `json:"vendor_count"`
	Threshold     float64                                  `json:"threshold"`
	Pairs         []normalization.DuplicatePair            `json:"duplicate_pairs"`
	Opportunities []consolidation.ConsolidationOpportunity `json:"opportunities"`
	Warnings      []quality.Warning                        `json:"warnings"`
}

// TotalEstimatedSavings суммарная оценка экономии по всем парам
func (r *Report) TotalEstimatedSavings() float64 {
	var total float64
	for _, opp := range r.Opportunities {
		total += opp.EstimatedSavings
	}
	return total
}

// NewReport собирает отчет из результатов прогона
func NewReport(vendorCount int, threshold float64, pairs []normalization.DuplicatePair,
	opportunities []consolidation.ConsolidationOpportunity, warnings []quality.Warning) *Report {
	return &Report{
		GeneratedAt:   time.Now().Format(time.RFC3339),
		VendorCount:   vendorCount,
		Threshold:     threshold,
		Pairs:         pairs,
		Opportunities: opportunities,
		Warnings:      warnings,
	}
}

// Exporter экспортер отчетов
type Exporter struct{}

// NewExporter создает новый экспортер
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export экспортирует отчет в указанном формате
func (e *Exporter) Export(report *Report, format ExportFormat, filename string) error {
	switch format {
	case FormatJSON:
		return e.ExportToJSON(report, filename)
	case FormatCSV:
		return e.ExportToCSV(report, filename)
	case FormatExcel:
		return e.ExportToExcel(report, filename)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportToJSON экспортирует отчет в JSON
func (e *Exporter) ExportToJSON(report *Report, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportToCSV экспортирует план консолидации в CSV.
// Формат плоский: одна строка на пару дубликатов, отсортировано по приоритету.
func (e *Exporter) ExportToCSV(report *Report, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Заголовки
	headers := []string{
		"Vendor ID 1", "Vendor ID 2", "Name 1", "Name 2", "Confidence",
		"Combined Spend", "Baseline Savings", "Volume Uplift",
		"Overhead Savings", "Estimated Savings", "Priority",
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	// Данные
	for _, opp := range report.Opportunities {
		record := []string{
			opp.Pair.ID1,
			opp.Pair.ID2,
			opp.Pair.Name1,
			opp.Pair.Name2,
			fmt.Sprintf("%.4f", opp.Pair.ConfidenceScore),
			fmt.Sprintf("%.2f", opp.CombinedSpend),
			fmt.Sprintf("%.2f", opp.BaselineSavings),
			fmt.Sprintf("%.2f", opp.VolumeUplift),
			fmt.Sprintf("%.2f", opp.OverheadSavings),
			fmt.Sprintf("%.2f", opp.EstimatedSavings),
			fmt.Sprintf("%.2f", opp.PriorityScore),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

// ExportToExcel экспортирует отчет в Excel: лист дубликатов,
// лист плана консолидации и сводка с предупреждениями качества
func (e *Exporter) ExportToExcel(report *Report, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	// Стиль заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := e.writeDuplicatesSheet(f, report, headerStyle); err != nil {
		return err
	}
	if err := e.writeConsolidationSheet(f, report, headerStyle); err != nil {
		return err
	}
	if err := e.writeSummarySheet(f, report, headerStyle); err != nil {
		return err
	}

	// Лист по умолчанию больше не нужен
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// writeDuplicatesSheet лист с найденными парами дубликатов
func (e *Exporter) writeDuplicatesSheet(f *excelize.File, report *Report, headerStyle int) error {
	sheetName := "Дубликаты"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"ID 1", "ID 2", "Название 1", "Название 2", "Уверенность", "Сигналы"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, pair := range report.Pairs {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), pair.ID1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), pair.ID2)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), pair.Name1)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), pair.Name2)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), pair.ConfidenceScore)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), formatSignals(pair))
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	return nil
}

// writeConsolidationSheet лист с планом консолидации
func (e *Exporter) writeConsolidationSheet(f *excelize.File, report *Report, headerStyle int) error {
	sheetName := "Консолидация"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID 1", "ID 2", "Совокупный расход", "Базовая экономия",
		"Выгода от объема", "Экономия на накладных", "Итоговая экономия", "Приоритет",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, opp := range report.Opportunities {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), opp.Pair.ID1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), opp.Pair.ID2)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), opp.CombinedSpend)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), opp.BaselineSavings)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), opp.VolumeUplift)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), opp.OverheadSavings)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), opp.EstimatedSavings)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), opp.PriorityScore)
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 22)
	}

	return nil
}

// writeSummarySheet сводный лист: итоги прогона и примеры предупреждений качества
func (e *Exporter) writeSummarySheet(f *excelize.File, report *Report, headerStyle int) error {
	sheetName := "Сводка"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	summary := [][2]interface{}{
		{"Дата формирования", report.GeneratedAt},
		{"Поставщиков проанализировано", report.VendorCount},
		{"Порог уверенности", report.Threshold},
		{"Пар дубликатов", len(report.Pairs)},
		{"Оценка экономии, итого", report.TotalEstimatedSavings()},
		{"Предупреждений качества", len(report.Warnings)},
	}
	for i, row := range summary {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", i+1), row[1])
	}

	// Примеры предупреждений, не больше 20 - полный список есть в JSON
	warningsStart := len(summary) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", warningsStart), "Предупреждения качества")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", warningsStart), fmt.Sprintf("A%d", warningsStart), headerStyle)

	maxWarnings := 20
	for i, warning := range report.Warnings {
		if i >= maxWarnings {
			break
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", warningsStart+1+i), warning.String())
	}

	f.SetColWidth(sheetName, "A", "A", 35)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetActiveSheet(index)

	return nil
}

// formatSignals собирает строку доступных сигналов пары для быстрого просмотра
func formatSignals(pair normalization.DuplicatePair) string {
	result := ""
	for _, signal := range pair.Signals {
		if !signal.Available {
			continue
		}
		if result != "" {
			result += ", "
		}
		result += fmt.Sprintf("%s=%.2f", signal.Kind, signal.Value)
	}
	return result
}
