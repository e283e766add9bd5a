package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/internal/validate"
)

type WorkoutHandler struct {
	r     *Responder
	va    *validate.Validator
	svc   *service.WorkoutService
	stats *service.StatsService
}

func NewWorkoutHandler(r *Responder, va *validate.Validator, svc *service.WorkoutService, stats *service.StatsService) *WorkoutHandler {
	return &WorkoutHandler{r: r, va: va, svc: svc, stats: stats}
}

// List godoc
// @Summary List own workouts
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} model.Envelope
// @Router /api/v1/workouts [get]
func (h *WorkoutHandler) List(c *gin.Context) {
	user := GetAuthUser(c)
	filter := model.WorkoutFilter{
		Status: c.Query("status"),
		From:   parseDateQuery(c.Query("from")),
		To:     parseDateQuery(c.Query("to")),
	}

	list, err := h.svc.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", list)
}

// Create godoc
// @Summary Log a workout
// @Tags workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.WorkoutRequest true "Workout details"
// @Success 201 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Router /api/v1/workouts [post]
func (h *WorkoutHandler) Create(c *gin.Context) {
	var req model.WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if err := h.va.Struct(&req); err != nil {
		h.r.Error(c, err)
		return
	}

	user := GetAuthUser(c)
	w, err := h.svc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.Created(c, "workout created", w)
}

// Get godoc
// @Summary Get one workout
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} model.Envelope
// @Failure 403 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/workouts/{id} [get]
func (h *WorkoutHandler) Get(c *gin.Context) {
	user := GetAuthUser(c)
	w, err := h.svc.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", w)
}

// Update godoc
// @Summary Update a workout
// @Tags workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param request body model.WorkoutRequest true "Workout details"
// @Success 200 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Failure 403 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/workouts/{id} [put]
func (h *WorkoutHandler) Update(c *gin.Context) {
	var req model.WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if err := h.va.Struct(&req); err != nil {
		h.r.Error(c, err)
		return
	}

	user := GetAuthUser(c)
	w, err := h.svc.Update(c.Request.Context(), user.ID, c.Param("id"), req)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "workout updated", w)
}

// Delete godoc
// @Summary Delete a workout
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} model.Envelope
// @Failure 403 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/workouts/{id} [delete]
func (h *WorkoutHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if err := h.svc.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "workout deleted", nil)
}

// Stats godoc
// @Summary Daily and total statistics over completed workouts
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} model.Envelope
// @Router /api/v1/workouts/stats [get]
func (h *WorkoutHandler) Stats(c *gin.Context) {
	user := GetAuthUser(c)
	res, err := h.stats.Stats(c.Request.Context(), user.ID, c.Query("from"), c.Query("to"))
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", res)
}

// parseDateQuery is lenient: a missing or malformed bound means
// unbounded, matching the statistics engine.
func parseDateQuery(raw string) time.Time {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
