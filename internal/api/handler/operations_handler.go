package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/core/ports"
)

// OperationsHandler serves the operations app's data.
type OperationsHandler struct {
	state ports.StateService
}

func NewOperationsHandler(state ports.StateService) *OperationsHandler {
	return &OperationsHandler{state: state}
}

// Routes returns the user's collection routes.
//
// @Summary      List collection routes
// @Tags         operations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Failure      401  {object}  errorResponse
// @Router       /operations/routes [get]
func (h *OperationsHandler) Routes(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	state, err := h.state.GetState(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, state.Routes)
}
