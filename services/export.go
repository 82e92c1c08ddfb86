package services

import (
	"fmt"

	"github.com/taxdesk/backend/models"
	"github.com/xuri/excelize/v2"
)

const invoiceSheet = "Invoice"

// Item table layout. Rows below the header shift with the item count;
// an empty invoice puts the total row immediately after the header.
const itemHeaderRow = 11

// RenderInvoiceWorkbook projects an invoice, its owner and its line
// items into a single-sheet workbook: title band, issuer block,
// invoice-number/date block, bill-to block, item table, total row and
// notes row.
func RenderInvoiceWorkbook(inv *models.Invoice, owner *models.User, items []models.InvoiceItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, err
	}

	widths := []struct {
		col   string
		width float64
	}{{"A", 25}, {"B", 15}, {"C", 15}, {"D", 20}}
	for _, w := range widths {
		if err := f.SetColWidth(invoiceSheet, w.col, w.col, w.width); err != nil {
			return nil, err
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	rightStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, err
	}
	currencyFmt := `"$"#,##0.00`
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &currencyFmt,
	})
	if err != nil {
		return nil, err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true},
	})
	if err != nil {
		return nil, err
	}

	// Title band
	f.MergeCell(invoiceSheet, "A1", "D1")
	f.SetCellValue(invoiceSheet, "A1", "INVOICE")
	f.SetCellStyle(invoiceSheet, "A1", "A1", titleStyle)

	// Issuer block
	f.MergeCell(invoiceSheet, "A3", "B3")
	f.SetCellValue(invoiceSheet, "A3", owner.Company)
	f.SetCellStyle(invoiceSheet, "A3", "A3", boldStyle)
	f.MergeCell(invoiceSheet, "A4", "B4")
	f.SetCellValue(invoiceSheet, "A4", inv.ClientAddress)

	// Invoice number and dates
	f.SetCellValue(invoiceSheet, "C3", "Invoice Number:")
	f.SetCellStyle(invoiceSheet, "C3", "C3", boldStyle)
	f.SetCellValue(invoiceSheet, "D3", inv.InvoiceNumber)
	f.SetCellStyle(invoiceSheet, "D3", "D3", rightStyle)
	f.SetCellValue(invoiceSheet, "C4", "Date:")
	f.SetCellValue(invoiceSheet, "D4", inv.Date)
	f.SetCellValue(invoiceSheet, "C5", "Due Date:")
	f.SetCellValue(invoiceSheet, "D5", inv.DueDate)

	// Bill-to block
	f.MergeCell(invoiceSheet, "A6", "B6")
	f.SetCellValue(invoiceSheet, "A6", "Bill To:")
	f.SetCellStyle(invoiceSheet, "A6", "A6", boldStyle)
	f.MergeCell(invoiceSheet, "A7", "B7")
	f.SetCellValue(invoiceSheet, "A7", inv.ClientName)
	f.MergeCell(invoiceSheet, "A8", "B8")
	f.SetCellValue(invoiceSheet, "A8", inv.ClientEmail)
	f.MergeCell(invoiceSheet, "A9", "B9")
	f.SetCellValue(invoiceSheet, "A9", inv.ClientAddress)

	// Item table
	header := []interface{}{"Description", "Quantity", "Rate", "Amount"}
	if err := f.SetSheetRow(invoiceSheet, fmt.Sprintf("A%d", itemHeaderRow), &header); err != nil {
		return nil, err
	}
	f.SetCellStyle(invoiceSheet, fmt.Sprintf("A%d", itemHeaderRow), fmt.Sprintf("D%d", itemHeaderRow), boldStyle)

	for i, item := range items {
		row := []interface{}{item.Description, item.Quantity, item.Rate, item.Amount}
		if err := f.SetSheetRow(invoiceSheet, fmt.Sprintf("A%d", itemHeaderRow+1+i), &row); err != nil {
			return nil, err
		}
	}

	// Total row
	totalRow := itemHeaderRow + 1 + len(items)
	f.SetCellValue(invoiceSheet, fmt.Sprintf("C%d", totalRow), "Total:")
	f.SetCellStyle(invoiceSheet, fmt.Sprintf("C%d", totalRow), fmt.Sprintf("C%d", totalRow), boldStyle)
	f.SetCellValue(invoiceSheet, fmt.Sprintf("D%d", totalRow), inv.Total)
	f.SetCellStyle(invoiceSheet, fmt.Sprintf("D%d", totalRow), fmt.Sprintf("D%d", totalRow), totalStyle)

	// Notes row
	notesRow := itemHeaderRow + 3 + len(items)
	f.MergeCell(invoiceSheet, fmt.Sprintf("A%d", notesRow), fmt.Sprintf("D%d", notesRow))
	f.SetCellValue(invoiceSheet, fmt.Sprintf("A%d", notesRow), "Notes: "+inv.Notes)
	f.SetCellStyle(invoiceSheet, fmt.Sprintf("A%d", notesRow), fmt.Sprintf("A%d", notesRow), wrapStyle)

	return f, nil
}
