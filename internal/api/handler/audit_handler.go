package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/core/ports"
)

// AuditHandler exposes the per-user audit trail. Routes mount it behind
// Manager-only RBAC.
type AuditHandler struct {
	state ports.StateService
}

func NewAuditHandler(state ports.StateService) *AuditHandler {
	return &AuditHandler{state: state}
}

// Logs returns the caller's audit trail, newest first.
//
// @Summary      Read the audit log
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Failure      403  {object}  errorResponse
// @Router       /audit/logs [get]
func (h *AuditHandler) Logs(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	entries, err := h.state.AuditLog(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, entries)
}
