package reports

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"santiye/internal/core/id"
	"santiye/internal/core/types"
)

type stubRepo struct {
	project *ProjectReport
	stock   []StockReportLine
}

func (r *stubRepo) GetProjectReport(_ context.Context, _ id.ID) (*ProjectReport, error) {
	return r.project, nil
}

func (r *stubRepo) GetStockReport(_ context.Context) ([]StockReportLine, error) {
	return r.stock, nil
}

func fixtureReport() *ProjectReport {
	return &ProjectReport{
		ProjectID:            id.New(),
		ProjectCode:          "PRJ-7",
		ProjectName:          "Villa tesisatı",
		CustomerName:         "Yılmaz İnşaat",
		Status:               "İşlemde",
		TotalPrice:           types.MustMoney("400"),
		TotalContractorPrice: types.MustMoney("320"),
		Lines: []ProjectReportLine{
			{
				PozCode:         "18.185/01",
				PozName:         "PPRC boru montajı",
				Unit:            "m",
				PriceType:       "M",
				Quantity:        types.NewQuantityFromFloat64(4),
				Price:           types.MustMoney("100"),
				ContractorPrice: types.MustMoney("80"),
			},
		},
	}
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestExportProjectReport_Workbook(t *testing.T) {
	svc := NewService(&stubRepo{project: fixtureReport()})

	data, name, err := svc.ExportProjectReport(context.Background(), id.New())
	require.NoError(t, err)
	assert.Equal(t, "proje-PRJ-7.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Contains(t, f.GetSheetList(), "Poz Dökümü")

	assert.Equal(t, "PRJ-7", cell(t, f, "Poz Dökümü", "B1"))
	assert.Equal(t, "Yılmaz İnşaat", cell(t, f, "Poz Dökümü", "B2"))
	assert.Equal(t, "Poz No", cell(t, f, "Poz Dökümü", "A5"))

	// First line: code, quantity and the two derived totals (4×100, 4×80).
	assert.Equal(t, "18.185/01", cell(t, f, "Poz Dökümü", "A6"))
	assert.Equal(t, "4", cell(t, f, "Poz Dökümü", "D6"))
	assert.Equal(t, "400", cell(t, f, "Poz Dökümü", "G6"))
	assert.Equal(t, "320", cell(t, f, "Poz Dökümü", "H6"))

	// Totals row sits one blank row below the last line.
	assert.Equal(t, "Toplam", cell(t, f, "Poz Dökümü", "F8"))
	assert.Equal(t, "400", cell(t, f, "Poz Dökümü", "G8"))
	assert.Equal(t, "320", cell(t, f, "Poz Dökümü", "H8"))
}

func TestExportStockReport_Workbook(t *testing.T) {
	svc := NewService(&stubRepo{stock: []StockReportLine{
		{PozCode: "18.185/01", PozName: "PPRC boru", Unit: "m", Quantity: types.NewQuantityFromFloat64(12.5)},
		{PozCode: "071.101", PozName: "Küresel vana", Unit: "adet", Quantity: types.NewQuantityFromFloat64(30)},
	}})

	data, name, err := svc.ExportStockReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stok-durumu.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Contains(t, f.GetSheetList(), "Stok Durumu")

	assert.Equal(t, "Poz No", cell(t, f, "Stok Durumu", "A1"))
	assert.Equal(t, "18.185/01", cell(t, f, "Stok Durumu", "A2"))
	assert.Equal(t, "12.5", cell(t, f, "Stok Durumu", "D2"))
	assert.Equal(t, "071.101", cell(t, f, "Stok Durumu", "A3"))
	assert.Equal(t, "30", cell(t, f, "Stok Durumu", "D3"))
}

func TestExportProjectReport_EmptyLines(t *testing.T) {
	report := fixtureReport()
	report.Lines = nil
	report.TotalPrice = types.ZeroMoney()
	report.TotalContractorPrice = types.ZeroMoney()

	svc := NewService(&stubRepo{project: report})

	data, _, err := svc.ExportProjectReport(context.Background(), id.New())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Toplam", cell(t, f, "Poz Dökümü", "F7"))
}
