package service

import (
	"fmt"
	"io"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/pkg/simpleexcel"
)

const moneyFormat = "#,##0.00"

// reportTemplate lays out the commission workbook. Sections are bound by id
// in WriteReport.
const reportTemplate = `
sheets:
  - name: Commissions
    sections:
      - id: period
        title: Commission report
        show_header: true
        locked: true
        title_style:
          font: {bold: true}
        header_style:
          font: {bold: true}
          fill: {color: "#DDEBF7"}
        columns:
          - {field_name: Start, header: Period start, width: 14}
          - {field_name: End, header: Period end, width: 14}
          - {field_name: Source, header: Source, width: 12}
          - {field_name: RunID, header: Run, width: 38}
      - id: results
        show_header: true
        locked: true
        header_style:
          font: {bold: true}
          fill: {color: "#DDEBF7"}
        columns:
          - {field_name: SalespersonID, header: ID, width: 28}
          - {field_name: Name, header: Salesperson, width: 24}
          - {field_name: SaleCount, header: Sales}
          - {field_name: TotalSales, header: Total sales, width: 16, format: "#,##0.00"}
          - {field_name: Percentage, header: Rate %, format: "0.00"}
          - {field_name: Commission, header: Commission, width: 16, format: "#,##0.00"}
          - {field_name: Fallback, header: Fallback}
  - name: Summary
    sections:
      - id: summary
        show_header: true
        direction: vertical
        header_style:
          font: {bold: true}
        columns:
          - {field_name: Salespeople, header: Salespeople}
          - {field_name: Sales, header: Sales}
          - {field_name: TotalSales, header: Total sales, width: 16, format: "#,##0.00"}
          - {field_name: TotalCommission, header: Total commission, width: 18, format: "#,##0.00"}
          - {field_name: AverageCommission, header: Average commission, width: 20, format: "#,##0.00"}
`

type periodRow struct {
	Start  string
	End    string
	Source string
	RunID  string
}

type commissionRow struct {
	SalespersonID string
	Name          string
	SaleCount     int
	TotalSales    float64
	Percentage    float64
	Commission    float64
	Fallback      string
}

type summaryRow struct {
	Salespeople       int
	Sales             int
	TotalSales        float64
	TotalCommission   float64
	AverageCommission float64
}

type saleRow struct {
	SaleID      string
	Salesperson string
	Date        string
	Client      string
	Product     string
	Amount      float64
}

// WriteReport renders report as an xlsx workbook with the per-salesperson
// results, a summary sheet and every counted sale. Nothing is written to w
// when the workbook cannot be built.
func WriteReport(w io.Writer, report *domain.CommissionReport) error {
	exporter, err := simpleexcel.NewDataExporterFromYamlConfig(reportTemplate)
	if err != nil {
		return fmt.Errorf("load report template: %w", err)
	}

	rows := make([]commissionRow, 0, len(report.Results))
	var sales []saleRow
	for _, r := range report.Results {
		row := commissionRow{
			SalespersonID: r.Salesperson.ID,
			Name:          r.Salesperson.Name,
			SaleCount:     r.SaleCount,
			TotalSales:    r.TotalSales.InexactFloat64(),
			Commission:    r.Commission.InexactFloat64(),
		}
		if r.MatchedRule != nil {
			row.Percentage = r.MatchedRule.Percentage.InexactFloat64()
		}
		if r.FallbackApplied {
			row.Fallback = "yes"
		}
		rows = append(rows, row)

		for _, s := range r.Sales {
			sales = append(sales, saleRow{
				SaleID:      s.ID,
				Salesperson: r.Salesperson.Name,
				Date:        s.Date.Format(domain.DateLayout),
				Client:      s.Client,
				Product:     s.Product,
				Amount:      s.Amount.InexactFloat64(),
			})
		}
	}

	sum := report.Summary
	exporter.
		BindSectionData("period", []periodRow{{
			Start:  report.Period.Start.Format(domain.DateLayout),
			End:    report.Period.End.Format(domain.DateLayout),
			Source: report.Source,
			RunID:  report.RunID,
		}}).
		BindSectionData("results", rows).
		BindSectionData("summary", []summaryRow{{
			Salespeople:       sum.SalespersonCount,
			Sales:             sum.SaleCount,
			TotalSales:        sum.TotalSales.InexactFloat64(),
			TotalCommission:   sum.TotalCommission.InexactFloat64(),
			AverageCommission: sum.AverageCommission.InexactFloat64(),
		}})

	// detail sheet is built fluently, its row count is unbounded
	exporter.AddSheet("Sales").
		AddSection(&simpleexcel.SectionConfig{
			ID:         "sales",
			ShowHeader: true,
			Data:       sales,
			Columns: []simpleexcel.ColumnConfig{
				{FieldName: "SaleID", Header: "Sale", Width: 28},
				{FieldName: "Salesperson", Header: "Salesperson", Width: 24},
				{FieldName: "Date", Header: "Date", Width: 12},
				{FieldName: "Client", Header: "Client", Width: 24},
				{FieldName: "Product", Header: "Product", Width: 24},
				{FieldName: "Amount", Header: "Amount", Width: 16, Format: moneyFormat},
			},
		}).
		Build()

	return exporter.ToWriter(w)
}

// ExportFileName is the attachment name used for a report download.
func ExportFileName(p domain.Period) string {
	return fmt.Sprintf("commissions_%s_%s.xlsx", p.Start.Format("20060102"), p.End.Format("20060102"))
}
