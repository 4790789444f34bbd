package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storeflow/internal/models"
)

type auditReader interface {
	RecentAudit(ctx context.Context, limit, offset int) ([]models.ReconciliationLog, int64, error)
}

type AdminHandler struct {
	audit auditReader
}

func NewAdminHandler(audit auditReader) *AdminHandler {
	return &AdminHandler{audit: audit}
}

// ListReconciliations pages through the reconciliation log, newest first.
// Forensics endpoint for tracing what the pipeline decided and attempted
// per transaction.
func (h *AdminHandler) ListReconciliations(c echo.Context) error {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 50

	logs, total, err := h.audit.RecentAudit(c.Request().Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch reconciliation logs")
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":        logs,
		"total":       total,
		"page":        page,
		"total_pages": totalPages,
	})
}
