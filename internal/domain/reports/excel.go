package reports

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

const (
	projectSheet = "Poz Dökümü"
	stockSheet   = "Stok Durumu"
)

// buildProjectWorkbook renders a project's poz breakdown.
func buildProjectWorkbook(report *ProjectReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(projectSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	// Header block
	setRow(f, projectSheet, 1, "Proje", report.ProjectCode, report.ProjectName)
	setRow(f, projectSheet, 2, "Müşteri", report.CustomerName)
	setRow(f, projectSheet, 3, "Durum", report.Status)

	// Column headers
	setRow(f, projectSheet, 5, "Poz No", "Poz Adı", "Birim", "Miktar", "Birim Fiyat", "Taşeron Fiyat", "Tutar", "Taşeron Tutar")

	row := 6
	for _, line := range report.Lines {
		total := line.Price.Mul(line.Quantity.Decimal())
		contractorTotal := line.ContractorPrice.Mul(line.Quantity.Decimal())
		setRow(f, projectSheet, row,
			line.PozCode,
			line.PozName,
			line.Unit,
			line.Quantity.Float64(),
			line.Price.InexactFloat64(),
			line.ContractorPrice.InexactFloat64(),
			total.InexactFloat64(),
			contractorTotal.InexactFloat64(),
		)
		row++
	}

	row++
	setRow(f, projectSheet, row, "", "", "", "", "", "Toplam",
		report.TotalPrice.InexactFloat64(),
		report.TotalContractorPrice.InexactFloat64(),
	)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildStockWorkbook renders the central stock summary.
func buildStockWorkbook(lines []StockReportLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(stockSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	setRow(f, stockSheet, 1, "Poz No", "Poz Adı", "Birim", "Miktar")
	for i, line := range lines {
		setRow(f, stockSheet, i+2, line.PozCode, line.PozName, line.Unit, line.Quantity.Float64())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// setRow writes values left to right starting at column A of the given row.
func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}
