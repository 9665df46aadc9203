package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// response is the success envelope every endpoint returns.
type response struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorResponse documents the failure envelope for swagger; the actual
// rendering happens in the centralized error handler.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, response{Success: true, Data: data})
}

// ctxUserID extracts the user id injected by the Auth middleware. Presence
// proves the middleware ran; protected handlers fast-fail without it.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
