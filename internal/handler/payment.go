package handler

import (
	"net/http"

	"loantrack/internal/ledger"
	"loantrack/internal/models"
	"loantrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentHandler serves the payment processor endpoints.
type PaymentHandler struct {
	DB       *gorm.DB
	Ledger   *ledger.Service
	PageSize int
}

func NewPaymentHandler(db *gorm.DB, svc *ledger.Service, pageSize int) *PaymentHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &PaymentHandler{DB: db, Ledger: svc, PageSize: pageSize}
}

type createPaymentReq struct {
	ClientID    uint            `json:"client_id" binding:"required"`
	LoanID      uint            `json:"loan_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate string          `json:"payment_date"`
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req createPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid payment_date, expected YYYY-MM-DD")
		return
	}

	payment, err := h.Ledger.CreatePayment(req.ClientID, req.LoanID, req.Amount, paymentDate)
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"payment": payment})
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.Ledger.ListPayments()
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"payments": payments, "total": len(payments)})
}

func (h *PaymentHandler) PaymentsByClient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	payments, err := h.Ledger.PaymentsByClient(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"payments": payments, "total": len(payments)})
}

func (h *PaymentHandler) PaymentsByLoan(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	payments, err := h.Ledger.PaymentsByLoan(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"payments": payments, "total": len(payments)})
}

// PaginatePayments returns one page of payments with paging metadata.
func (h *PaymentHandler) PaginatePayments(c *gin.Context) {
	page, limit, ok := pageParams(c, h.PageSize)
	if !ok {
		return
	}

	var payments []models.Payment
	if err := h.DB.Order("payment_date DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&payments).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query payments failed")
		return
	}
	var total int64
	if err := h.DB.Model(&models.Payment{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count payments failed")
		return
	}

	util.Success(c, pageEnvelope(page, limit, total, payments))
}
