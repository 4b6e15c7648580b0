package middleware

import (
	"loantrack/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware records every mutating API call after it completes. The
// audit row is best effort: a failed insert never fails the request.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case "POST", "PUT", "DELETE":
		default:
			return
		}

		entry := models.AuditLog{
			Method:     c.Request.Method,
			Path:       c.FullPath(),
			StatusCode: c.Writer.Status(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		if user, ok := CurrentUser(c); ok {
			entry.UserID = &user.ID
		}

		_ = db.Create(&entry).Error
	}
}
