package handler

import (
	"net/http"
	"time"

	"loantrack/internal/ledger"
	"loantrack/internal/models"
	"loantrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoanHandler serves the loan ledger endpoints.
type LoanHandler struct {
	DB       *gorm.DB
	Ledger   *ledger.Service
	PageSize int
}

func NewLoanHandler(db *gorm.DB, svc *ledger.Service, pageSize int) *LoanHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &LoanHandler{DB: db, Ledger: svc, PageSize: pageSize}
}

type createLoanReq struct {
	ClientID  uint             `json:"client_id" binding:"required"`
	Principal decimal.Decimal  `json:"principal" binding:"required"`
	Interest  *decimal.Decimal `json:"interest"`
	StartDate string           `json:"start_date"`
	DueDate   string           `json:"due_date"`
}

func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req createLoanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start_date, expected YYYY-MM-DD")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due_date, expected YYYY-MM-DD")
		return
	}

	// absent interest means zero
	interest := decimal.Zero
	if req.Interest != nil {
		interest = *req.Interest
	}

	loan, err := h.Ledger.CreateLoan(req.ClientID, req.Principal, interest, startDate, dueDate)
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loan": loan})
}

type updateLoanReq struct {
	Interest *decimal.Decimal `json:"interest"`
	Status   *string          `json:"status"`
	DueDate  string           `json:"due_date"`
}

func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateLoanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due_date, expected YYYY-MM-DD")
		return
	}

	loan, err := h.Ledger.UpdateLoan(id, ledger.LoanUpdate{
		Interest: req.Interest,
		Status:   req.Status,
		DueDate:  dueDate,
	})
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loan": loan})
}

func (h *LoanHandler) ListLoans(c *gin.Context) {
	loans, err := h.Ledger.ListLoans()
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loans": loans, "total": len(loans)})
}

func (h *LoanHandler) GetLoan(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	loan, err := h.Ledger.GetLoan(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loan": loan})
}

func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.Ledger.DeleteLoan(id); err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "loan deleted"})
}

func (h *LoanHandler) LoansByClient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	loans, err := h.Ledger.LoansByClient(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loans": loans, "total": len(loans)})
}

// SweepOverdue re-evaluates every loan's status against today's date.
func (h *LoanHandler) SweepOverdue(c *gin.Context) {
	touched, err := h.Ledger.SweepOverdue(time.Now())
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "loan statuses updated",
		"updated": touched,
	})
}

// PaginateLoans returns one page of loans with paging metadata.
func (h *LoanHandler) PaginateLoans(c *gin.Context) {
	page, limit, ok := pageParams(c, h.PageSize)
	if !ok {
		return
	}

	var loans []models.Loan
	if err := h.DB.Offset((page - 1) * limit).Limit(limit).Find(&loans).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query loans failed")
		return
	}
	var total int64
	if err := h.DB.Model(&models.Loan{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count loans failed")
		return
	}

	util.Success(c, pageEnvelope(page, limit, total, loans))
}
