package handler

import (
	"net/http"
	"strconv"

	"loantrack/internal/models"
	"loantrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardHandler serves the aggregated views backing the dashboard.
type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

func (h *DashboardHandler) countLoans(status string) (int64, error) {
	var n int64
	err := h.DB.Model(&models.Loan{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// Summary returns the top-level counters: clients, loans, loans per status
// and the sum of contracted interest.
func (h *DashboardHandler) Summary(c *gin.Context) {
	var totalClients, totalLoans int64
	if err := h.DB.Model(&models.Client{}).Count(&totalClients).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count clients failed")
		return
	}
	if err := h.DB.Model(&models.Loan{}).Count(&totalLoans).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count loans failed")
		return
	}

	active, err1 := h.countLoans(models.LoanStatusActive)
	paid, err2 := h.countLoans(models.LoanStatusPaid)
	overdue, err3 := h.countLoans(models.LoanStatusOverdue)
	if err1 != nil || err2 != nil || err3 != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count loans failed")
		return
	}

	var interestTotal decimal.Decimal
	row := h.DB.Model(&models.Loan{}).Select("COALESCE(SUM(interest), 0)").Row()
	if err := row.Scan(&interestTotal); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "sum interest failed")
		return
	}

	util.Success(c, util.Response{
		"total_clients":   totalClients,
		"total_loans":     totalLoans,
		"loans_active":    active,
		"loans_paid":      paid,
		"loans_overdue":   overdue,
		"interest_earned": interestTotal,
		"loans_per_status": gin.H{
			models.LoanStatusActive:  active,
			models.LoanStatusPaid:    paid,
			models.LoanStatusOverdue: overdue,
		},
	})
}

// paymentsPerMonth counts payments grouped by calendar month, optionally
// restricted to a year.
func (h *DashboardHandler) paymentsPerMonth(year int) (map[int]int64, error) {
	q := h.DB.Model(&models.Payment{}).
		Select("CAST(strftime('%m', payment_date) AS INTEGER) AS month, COUNT(id) AS total")
	if year > 0 {
		q = q.Where("CAST(strftime('%Y', payment_date) AS INTEGER) = ?", year)
	}

	rows, err := q.Group("month").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int64, 12)
	for m := 1; m <= 12; m++ {
		counts[m] = 0
	}
	for rows.Next() {
		var month int
		var total int64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		counts[month] = total
	}
	return counts, rows.Err()
}

// PaymentsByMonth returns a 12-entry series of payment counts for charting.
func (h *DashboardHandler) PaymentsByMonth(c *gin.Context) {
	counts, err := h.paymentsPerMonth(0)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query payments failed")
		return
	}

	series := make([]gin.H, 0, 12)
	for m := 1; m <= 12; m++ {
		series = append(series, gin.H{"month": m, "count": counts[m]})
	}
	util.Success(c, util.Response{"payments_by_month": series})
}

// LoanSummary returns the joined loan table shown on the dashboard: client
// name next to balance and status.
func (h *DashboardHandler) LoanSummary(c *gin.Context) {
	var loans []models.Loan
	if err := h.DB.Preload("Client").Find(&loans).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query loans failed")
		return
	}

	data := make([]gin.H, 0, len(loans))
	for _, l := range loans {
		clientName := "unknown"
		if l.Client != nil {
			clientName = l.Client.Name
		}
		data = append(data, gin.H{
			"loan_id":   l.ID,
			"client":    clientName,
			"total":     l.Principal.Add(l.Interest),
			"paid":      l.PaidAmount,
			"remaining": l.RemainingAmount,
			"status":    l.Status,
			"due_date":  l.DueDate.Format(dateLayout),
		})
	}
	util.Success(c, util.Response{"data": data, "total": len(data)})
}

// Report returns filtered totals over payments, optionally narrowed by
// month and year.
func (h *DashboardHandler) Report(c *gin.Context) {
	month, _ := strconv.Atoi(c.DefaultQuery("month", "0"))
	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))
	if month != 0 && (month < 1 || month > 12) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be between 1 and 12")
		return
	}

	q := h.DB.Model(&models.Payment{})
	if month != 0 {
		q = q.Where("CAST(strftime('%m', payment_date) AS INTEGER) = ?", month)
	}
	if year != 0 {
		q = q.Where("CAST(strftime('%Y', payment_date) AS INTEGER) = ?", year)
	}

	var totalPaid decimal.Decimal
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&totalPaid); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query payments failed")
		return
	}

	var totalLoans int64
	if err := h.DB.Model(&models.Loan{}).Count(&totalLoans).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count loans failed")
		return
	}

	active, err1 := h.countLoans(models.LoanStatusActive)
	paid, err2 := h.countLoans(models.LoanStatusPaid)
	overdue, err3 := h.countLoans(models.LoanStatusOverdue)
	if err1 != nil || err2 != nil || err3 != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count loans failed")
		return
	}

	counts, err := h.paymentsPerMonth(year)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query payments failed")
		return
	}

	util.Success(c, util.Response{
		"total_loans":    totalLoans,
		"total_paid":     totalPaid,
		"active_clients": active,
		"loans_per_status": gin.H{
			models.LoanStatusActive:  active,
			models.LoanStatusPaid:    paid,
			models.LoanStatusOverdue: overdue,
		},
		"payments_by_month": counts,
	})
}
