// Package export renders transactions as spreadsheet downloads.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"cashmesh/internal/models"
)

// ContentType is the MIME type of files produced by WriteTransactions.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the name of the single worksheet in an export.
const SheetName = "Transactions"

// Headers are the column titles of the first row.
var Headers = []string{"ID", "Date", "Type", "Category", "Amount", "Description"}

var columnWidths = []float64{8, 12, 10, 20, 14, 40}

var border = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// WriteTransactions writes transactions as an xlsx workbook to w, one row per
// transaction in the given order, followed by income and expense totals.
func WriteTransactions(w io.Writer, transactions []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{Border: border, NumFmt: 2})
	if err != nil {
		return err
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: border,
		NumFmt: 2,
	})
	if err != nil {
		return err
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(SheetName, "A1", &Headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", cell(len(Headers), 1), headerStyle); err != nil {
		return err
	}

	income, expense := decimal.Zero, decimal.Zero
	for i, t := range transactions {
		row := i + 2
		category := ""
		if t.Category != nil {
			category = t.Category.Name
		}
		description := ""
		if t.Description != nil {
			description = *t.Description
		}

		values := []interface{}{
			t.ID,
			t.TransactionDate.Format(models.DateLayout),
			string(t.Type),
			category,
			t.Amount.Round(models.AmountScale).InexactFloat64(),
			description,
		}
		if err := f.SetSheetRow(SheetName, cell(1, row), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell(1, row), cell(len(Headers), row), dataStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell(5, row), cell(5, row), amountStyle); err != nil {
			return err
		}

		switch t.Type {
		case models.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case models.TransactionTypeExpense:
			expense = expense.Add(t.Amount)
		}
	}

	summary := len(transactions) + 2
	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total income", income},
		{"Total expense", expense},
	}
	for i, total := range totals {
		row := summary + i
		if err := f.SetCellValue(SheetName, cell(1, row), total.label); err != nil {
			return err
		}
		if err := f.MergeCell(SheetName, cell(1, row), cell(4, row)); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell(5, row), total.value.InexactFloat64()); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell(6, row), fmt.Sprintf("%d records", len(transactions))); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell(1, row), cell(len(Headers), row), summaryStyle); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
