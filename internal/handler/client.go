package handler

import (
	"net/http"
	"strings"

	"loantrack/internal/ledger"
	"loantrack/internal/models"
	"loantrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClientHandler serves the client registry endpoints.
type ClientHandler struct {
	DB       *gorm.DB
	Ledger   *ledger.Service
	PageSize int
}

func NewClientHandler(db *gorm.DB, svc *ledger.Service, pageSize int) *ClientHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ClientHandler{DB: db, Ledger: svc, PageSize: pageSize}
}

type clientReq struct {
	Name       string          `json:"name" binding:"required,max=100"`
	NationalID string          `json:"national_id" binding:"required,max=20"`
	Phone      string          `json:"phone" binding:"max=20"`
	Email      string          `json:"email" binding:"omitempty,email,max=100"`
	Address    string          `json:"address" binding:"max=150"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Status     string          `json:"status" binding:"max=50"`
}

func (r *clientReq) toModel() (*models.Client, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &models.Client{
		Name:       strings.TrimSpace(r.Name),
		NationalID: strings.TrimSpace(r.NationalID),
		Phone:      r.Phone,
		Email:      r.Email,
		Address:    r.Address,
		Amount:     r.Amount,
		Date:       date,
		Status:     r.Status,
	}, nil
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req clientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	client, err := req.toModel()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date, expected YYYY-MM-DD")
		return
	}

	if err := h.Ledger.CreateClient(client); err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{"client": client})
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.Ledger.ListClients()
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"clients": clients, "total": len(clients)})
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	client, err := h.Ledger.GetClient(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"client": client})
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req clientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	in, err := req.toModel()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date, expected YYYY-MM-DD")
		return
	}

	client, err := h.Ledger.UpdateClient(id, in)
	if err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"client": client})
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.Ledger.DeleteClient(id); err != nil {
		ledgerError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "client deleted"})
}

// SearchClients looks up clients by free text over name, national id, phone
// and email.
func (h *ClientHandler) SearchClients(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "query must not be empty")
		return
	}

	like := "%" + query + "%"
	var clients []models.Client
	if err := h.DB.
		Where("name LIKE ? OR national_id LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like, like).
		Find(&clients).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "search failed")
		return
	}

	util.Success(c, util.Response{"clients": clients, "total": len(clients)})
}

// PaginateClients returns one page of clients with paging metadata.
func (h *ClientHandler) PaginateClients(c *gin.Context) {
	page, limit, ok := pageParams(c, h.PageSize)
	if !ok {
		return
	}

	var clients []models.Client
	if err := h.DB.Offset((page - 1) * limit).Limit(limit).Find(&clients).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query clients failed")
		return
	}
	var total int64
	if err := h.DB.Model(&models.Client{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count clients failed")
		return
	}

	util.Success(c, pageEnvelope(page, limit, total, clients))
}
