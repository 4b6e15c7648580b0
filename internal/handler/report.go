package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"loantrack/internal/models"
	"loantrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportHandler exports clients, loans and payments as CSV or XLSX
// attachments.
type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// writeCSV streams a header plus rows as a CSV attachment.
func writeCSV(c *gin.Context, name string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.csv\"",
		name, time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(header)
	for _, row := range rows {
		_ = writer.Write(row)
	}
}

// writeXLSX streams a single-sheet workbook as an XLSX attachment.
func writeXLSX(c *gin.Context, name, sheet string, header []string, rows [][]interface{}) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheet)

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	_ = f.SetSheetRow(sheet, "A1", &headerRow)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(sheet, cell, &row)
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.xlsx\"",
		name, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "write workbook failed")
	}
}

var clientReportHeader = []string{"ID", "Name", "National ID", "Phone", "Email", "Address", "Amount", "Status"}

func (h *ReportHandler) clientRows() ([][]string, error) {
	var clients []models.Client
	if err := h.DB.Order("id").Find(&clients).Error; err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(clients))
	for _, cl := range clients {
		rows = append(rows, []string{
			fmt.Sprint(cl.ID), cl.Name, cl.NationalID, cl.Phone, cl.Email,
			cl.Address, cl.Amount.StringFixed(2), cl.Status,
		})
	}
	return rows, nil
}

func (h *ReportHandler) ExportClientsCSV(c *gin.Context) {
	rows, err := h.clientRows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query clients failed")
		return
	}
	writeCSV(c, "clients", clientReportHeader, rows)
}

func (h *ReportHandler) ExportClientsXLSX(c *gin.Context) {
	rows, err := h.clientRows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query clients failed")
		return
	}
	writeXLSX(c, "clients", "Clients", clientReportHeader, stringRowsToCells(rows))
}

var loanReportHeader = []string{"ID", "Client", "Total", "Paid", "Remaining", "Start Date", "Due Date", "Status"}

func (h *ReportHandler) loanRows() ([][]string, error) {
	var loans []models.Loan
	if err := h.DB.Preload("Client").Order("id").Find(&loans).Error; err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		clientName := "unknown"
		if l.Client != nil {
			clientName = l.Client.Name
		}
		rows = append(rows, []string{
			fmt.Sprint(l.ID),
			clientName,
			l.Principal.Add(l.Interest).StringFixed(2),
			l.PaidAmount.StringFixed(2),
			l.RemainingAmount.StringFixed(2),
			l.StartDate.Format(dateLayout),
			l.DueDate.Format(dateLayout),
			l.Status,
		})
	}
	return rows, nil
}

func (h *ReportHandler) ExportLoansCSV(c *gin.Context) {
	rows, err := h.loanRows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query loans failed")
		return
	}
	writeCSV(c, "loans", loanReportHeader, rows)
}

func (h *ReportHandler) ExportLoansXLSX(c *gin.Context) {
	rows, err := h.loanRows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query loans failed")
		return
	}
	writeXLSX(c, "loans", "Loans", loanReportHeader, stringRowsToCells(rows))
}

var paymentReportHeader = []string{"ID", "Reference", "Client ID", "Loan ID", "Amount", "Date", "Status"}

func (h *ReportHandler) paymentRows() ([][]string, error) {
	var payments []models.Payment
	if err := h.DB.Order("id").Find(&payments).Error; err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			fmt.Sprint(p.ID), p.Reference, fmt.Sprint(p.ClientID), fmt.Sprint(p.LoanID),
			p.Amount.StringFixed(2), p.PaymentDate.Format(dateLayout), p.Status,
		})
	}
	return rows, nil
}

func (h *ReportHandler) ExportPaymentsCSV(c *gin.Context) {
	rows, err := h.paymentRows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query payments failed")
		return
	}
	writeCSV(c, "payments", paymentReportHeader, rows)
}

func (h *ReportHandler) ExportPaymentsXLSX(c *gin.Context) {
	rows, err := h.paymentRows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query payments failed")
		return
	}
	writeXLSX(c, "payments", "Payments", paymentReportHeader, stringRowsToCells(rows))
}

func stringRowsToCells(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
