package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/internal/validate"
)

type ChallengeHandler struct {
	r   *Responder
	va  *validate.Validator
	svc *service.ChallengeService
}

func NewChallengeHandler(r *Responder, va *validate.Validator, svc *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{r: r, va: va, svc: svc}
}

// List godoc
// @Summary List challenges
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Envelope
// @Router /api/v1/challenges [get]
func (h *ChallengeHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", list)
}

// Create godoc
// @Summary Create a challenge
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ChallengeRequest true "Challenge details"
// @Success 201 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Router /api/v1/challenges [post]
func (h *ChallengeHandler) Create(c *gin.Context) {
	var req model.ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if err := h.va.Struct(&req); err != nil {
		h.r.Error(c, err)
		return
	}

	user := GetAuthUser(c)
	ch, err := h.svc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.Created(c, "challenge created", ch)
}

// Get godoc
// @Summary Get one challenge
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path string true "Challenge ID"
// @Success 200 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/challenges/{id} [get]
func (h *ChallengeHandler) Get(c *gin.Context) {
	ch, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", ch)
}

// Join godoc
// @Summary Join a challenge
// @Description Joining the same challenge twice yields a conflict.
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path string true "Challenge ID"
// @Success 200 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Failure 409 {object} model.Envelope
// @Router /api/v1/challenges/{id}/join [post]
func (h *ChallengeHandler) Join(c *gin.Context) {
	user := GetAuthUser(c)
	if err := h.svc.Join(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "joined challenge", nil)
}

// Participants godoc
// @Summary List challenge participants
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path string true "Challenge ID"
// @Success 200 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/challenges/{id}/participants [get]
func (h *ChallengeHandler) Participants(c *gin.Context) {
	list, err := h.svc.Participants(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", list)
}
