package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/internal/validate"
)

type AuthHandler struct {
	r   *Responder
	va  *validate.Validator
	svc *service.AuthService
}

func NewAuthHandler(r *Responder, va *validate.Validator, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{r: r, va: va, svc: svc}
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Account details"
// @Success 201 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Failure 409 {object} model.Envelope
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if err := h.va.Struct(&req); err != nil {
		h.r.Error(c, err)
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.Created(c, "account created", res)
}

// Login godoc
// @Summary Login with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Failure 401 {object} model.Envelope
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if err := h.va.Struct(&req); err != nil {
		h.r.Error(c, err)
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "login successful", res)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.Envelope
// @Failure 401 {object} model.Envelope
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}

	res, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "token refreshed", res)
}

// Me godoc
// @Summary Get the current profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Envelope
// @Failure 401 {object} model.Envelope
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	profile, err := h.svc.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", profile)
}

// UpdateMe godoc
// @Summary Update the current profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Failure 409 {object} model.Envelope
// @Router /api/v1/auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if err := h.va.Struct(&req); err != nil {
		h.r.Error(c, err)
		return
	}

	user := GetAuthUser(c)
	profile, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "profile updated", profile)
}

// DeactivateMe godoc
// @Summary Deactivate the current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Envelope
// @Router /api/v1/auth/me [delete]
func (h *AuthHandler) DeactivateMe(c *gin.Context) {
	user := GetAuthUser(c)
	if err := h.svc.Deactivate(c.Request.Context(), user.ID); err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "account deactivated", nil)
}
