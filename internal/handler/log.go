package handler

import (
	"net/http"

	"loantrack/internal/models"
	"loantrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler exposes the audit trail.
type LogHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewLogHandler(db *gorm.DB, pageSize int) *LogHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &LogHandler{DB: db, PageSize: pageSize}
}

// ListLogs returns one page of audit entries, newest first.
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, limit, ok := pageParams(c, h.PageSize)
	if !ok {
		return
	}

	var logs []models.AuditLog
	if err := h.DB.Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query logs failed")
		return
	}
	var total int64
	if err := h.DB.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count logs failed")
		return
	}

	util.Success(c, pageEnvelope(page, limit, total, logs))
}
