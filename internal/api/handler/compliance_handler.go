package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/core/ports"
)

// ComplianceHandler serves the compliance checklist and its audit action.
type ComplianceHandler struct {
	state ports.StateService
}

func NewComplianceHandler(state ports.StateService) *ComplianceHandler {
	return &ComplianceHandler{state: state}
}

type updateChecklistRequest struct {
	ID      string `json:"id" validate:"required"`
	Checked bool   `json:"checked"`
}

// Checklist returns the compliance checklist.
//
// @Summary      Get the compliance checklist
// @Tags         compliance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /compliance/checklist [get]
func (h *ComplianceHandler) Checklist(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	state, err := h.state.GetState(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, state.Checklist)
}

// UpdateItem flips one checklist item.
//
// @Summary      Update a checklist item
// @Tags         compliance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateChecklistRequest  true  "Item id and checked flag"
// @Success      200   {object}  response
// @Failure      404   {object}  errorResponse
// @Router       /compliance/checklist [put]
func (h *ComplianceHandler) UpdateItem(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateChecklistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.state.UpdateChecklistItem(c.Request().Context(), userID, req.ID, req.Checked)
	if err != nil {
		return err
	}
	return ok(c, item)
}

type auditResult struct {
	Resolved int `json:"resolved"`
}

// RunAudit marks all unchecked items checked and reports how many were
// resolved.
//
// @Summary      Resolve all open checklist items
// @Tags         compliance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /compliance/audit [post]
func (h *ComplianceHandler) RunAudit(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	resolved, err := h.state.ResolveChecklist(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, auditResult{Resolved: resolved})
}
