package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/noman-nayyar/ecommerce-springboot/internal/core/ports"
)

const defaultAuditLimit = 50

// AuditHandler exposes the security audit trail to admins.
type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// Recent returns the most recent audit events, newest first.
//
// @Summary      Recent authentication audit events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of events (default 50)"
// @Success      200    {array}   domain.AuditEvent
// @Router       /api/admin/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	limit := int64(defaultAuditLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	events, err := h.repo.FindRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
