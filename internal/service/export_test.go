package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/locvowork/sales_commission/internal/commission"
	"github.com/locvowork/sales_commission/internal/logger"
	"github.com/locvowork/sales_commission/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportReport(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{}, "error")
	svc := NewCommissionService(repository.NewStaticProvider(nil), nil, nil, commission.FallbackLowestRule)
	report, err := svc.Calculate(context.Background(), quarter(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Commissions", "Summary", "Sales"}, f.GetSheetList())

	raw := excelize.Options{RawCellValue: true}
	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis, raw)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Commission report", cell("Commissions", "A1"))
	assert.Equal(t, "2024-01-01", cell("Commissions", "A3"))
	assert.Equal(t, "static", cell("Commissions", "C3"))

	// results header on row 5, largest total first
	assert.Equal(t, "Salesperson", cell("Commissions", "B5"))
	assert.Equal(t, "Ana Martínez", cell("Commissions", "B6"))
	assert.Equal(t, "65000", cell("Commissions", "D6"))
	assert.Equal(t, "6500", cell("Commissions", "F6"))

	assert.Equal(t, "4", cell("Summary", "A2"))
	assert.Equal(t, "11040", cell("Summary", "D2"))

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	assert.Len(t, rows, 7)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "commissions_20240101_20240331.xlsx", ExportFileName(quarter(t)))
}
