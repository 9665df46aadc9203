package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/core/ports"
)

// PaymentsHandler serves the payments app's transactions.
type PaymentsHandler struct {
	state ports.StateService
}

func NewPaymentsHandler(state ports.StateService) *PaymentsHandler {
	return &PaymentsHandler{state: state}
}

type createPaymentRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
}

// Transactions lists the user's payment history.
//
// @Summary      List transactions
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /payments/transactions [get]
func (h *PaymentsHandler) Transactions(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	state, err := h.state.GetState(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, state.Transactions)
}

// Create records a completed payment. The server assigns id, date, and
// status.
//
// @Summary      Create a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPaymentRequest  true  "Recipient and amount"
// @Success      201   {object}  response
// @Failure      400   {object}  errorResponse
// @Router       /payments/transactions [post]
func (h *PaymentsHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.state.AddTransaction(c.Request().Context(), userID, req.Recipient, req.Amount)
	if err != nil {
		return err
	}
	return created(c, tx)
}
