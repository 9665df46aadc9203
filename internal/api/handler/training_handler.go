package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/core/ports"
)

// TrainingHandler serves training progress and the leaderboard.
type TrainingHandler struct {
	state ports.StateService
}

func NewTrainingHandler(state ports.StateService) *TrainingHandler {
	return &TrainingHandler{state: state}
}

type updateProgressRequest struct {
	Started   *bool    `json:"started"`
	Completed *bool    `json:"completed"`
	Score     *float64 `json:"score"`
}

// Progress lists the user's course progress.
//
// @Summary      List training progress
// @Tags         training
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /training/progress [get]
func (h *TrainingHandler) Progress(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	state, err := h.state.GetState(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, state.TrainingProgress)
}

// UpdateProgress merges partial progress fields into one course.
//
// @Summary      Update progress on a course
// @Tags         training
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Course id"
// @Param        body  body      updateProgressRequest  true  "Partial progress fields"
// @Success      200   {object}  response
// @Failure      404   {object}  errorResponse
// @Router       /training/progress/{id} [put]
func (h *TrainingHandler) UpdateProgress(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid course id")
	}

	var req updateProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	course, err := h.state.UpdateTrainingProgress(c.Request().Context(), userID, courseID, ports.TrainingPatch{
		Started:   req.Started,
		Completed: req.Completed,
		Score:     req.Score,
	})
	if err != nil {
		return err
	}
	return ok(c, course)
}

// Leaderboard returns the training leaderboard.
//
// @Summary      Get the leaderboard
// @Tags         training
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /training/leaderboard [get]
func (h *TrainingHandler) Leaderboard(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	state, err := h.state.GetState(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, state.Leaderboard)
}
