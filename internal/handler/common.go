package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"loantrack/internal/ledger"
	"loantrack/internal/util"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// parseUintParam reads a numeric path parameter. On failure it writes the
// error response and returns false.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// parseDate parses an optional YYYY-MM-DD string. Empty input yields nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ledgerError maps the ledger's error taxonomy onto HTTP statuses and
// business codes.
func ledgerError(c *gin.Context, err error) {
	var nf *ledger.NotFoundError
	var ve *ledger.ValidationError
	var ce *ledger.ConflictError
	switch {
	case errors.As(err, &nf):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, nf.Error())
	case errors.As(err, &ve):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, ve.Error())
	case errors.As(err, &ce):
		util.Error(c, http.StatusConflict, util.CodeConflict, ce.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// pageParams reads ?page= and ?limit=, both 1-based. On failure it writes
// the error response and returns false.
func pageParams(c *gin.Context, defaultLimit int) (page, limit int, ok bool) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 || limit < 1 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "page and limit must be greater than 0")
		return 0, 0, false
	}
	return page, limit, true
}

// pageEnvelope is the shared shape of paginated list responses.
func pageEnvelope(page, limit int, total int64, data interface{}) util.Response {
	return util.Response{
		"page":          page,
		"per_page":      limit,
		"total_records": total,
		"total_pages":   (total + int64(limit) - 1) / int64(limit),
		"data":          data,
	}
}
