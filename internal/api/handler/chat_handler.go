package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/core/ports"
)

// ChatHandler manages AI-assistant session metadata.
type ChatHandler struct {
	state ports.StateService
}

func NewChatHandler(state ports.StateService) *ChatHandler {
	return &ChatHandler{state: state}
}

type createSessionRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// List returns all chat sessions.
//
// @Summary      List chat sessions
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /chat/sessions [get]
func (h *ChatHandler) List(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	sessions, err := h.state.ListSessions(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, sessions)
}

// Create registers a new chat session. Id and title are optional.
//
// @Summary      Create a chat session
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSessionRequest  false  "Optional id and title"
// @Success      201   {object}  response
// @Router       /chat/sessions [post]
func (h *ChatHandler) Create(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.state.AddSession(c.Request().Context(), req.ID, req.Title)
	if err != nil {
		return err
	}
	return created(c, session)
}

// Delete removes a chat session.
//
// @Summary      Delete a chat session
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Session id"
// @Success      200  {object}  response
// @Failure      404  {object}  errorResponse
// @Router       /chat/sessions/{id} [delete]
func (h *ChatHandler) Delete(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	deleted, err := h.state.RemoveSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "chat session not found")
	}
	return ok(c, map[string]bool{"deleted": true})
}

// Touch bumps a session's last-active timestamp.
//
// @Summary      Record chat session activity
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Session id"
// @Success      200  {object}  response
// @Failure      404  {object}  errorResponse
// @Router       /chat/sessions/{id}/activity [post]
func (h *ChatHandler) Touch(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	if err := h.state.UpdateSessionActivity(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return ok(c, map[string]bool{"updated": true})
}
