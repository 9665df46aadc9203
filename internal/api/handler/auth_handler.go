package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/api/metrics"
	"github.com/suitewaste/deskshell/internal/core/domain"
	"github.com/suitewaste/deskshell/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Pin string `json:"pin" validate:"required,numeric,len=4"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login authenticates a terminal user by PIN and returns a JWT token.
//
// @Summary      Login with a terminal PIN
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Terminal PIN"
// @Success      200   {object}  response
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid PIN")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Pin)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return ok(c, loginResponse{Token: token, User: user})
}
