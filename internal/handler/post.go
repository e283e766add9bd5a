package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/internal/validate"
)

type PostHandler struct {
	r   *Responder
	va  *validate.Validator
	svc *service.PostService
}

func NewPostHandler(r *Responder, va *validate.Validator, svc *service.PostService) *PostHandler {
	return &PostHandler{r: r, va: va, svc: svc}
}

// List godoc
// @Summary List feed posts, newest first
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} model.Envelope
// @Router /api/v1/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", list)
}

// Create godoc
// @Summary Publish a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PostRequest true "Post content"
// @Success 201 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Router /api/v1/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if err := h.va.Struct(&req); err != nil {
		h.r.Error(c, err)
		return
	}

	user := GetAuthUser(c)
	p, err := h.svc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.Created(c, "post published", p)
}

// Get godoc
// @Summary Get one post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "", p)
}

// Update godoc
// @Summary Edit an own post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body model.PostRequest true "Post content"
// @Success 200 {object} model.Envelope
// @Failure 403 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.r.Error(c, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if err := h.va.Struct(&req); err != nil {
		h.r.Error(c, err)
		return
	}

	user := GetAuthUser(c)
	p, err := h.svc.Update(c.Request.Context(), user.ID, c.Param("id"), req)
	if err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "post updated", p)
}

// Delete godoc
// @Summary Delete an own post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.Envelope
// @Failure 403 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if err := h.svc.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.r.Error(c, err)
		return
	}
	h.r.OK(c, "post deleted", nil)
}
