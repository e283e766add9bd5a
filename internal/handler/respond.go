package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
)

// Responder is the single place that turns a taxonomy kind into a wire
// response and decides logging verbosity. No other layer logs the same
// failure; services construct errors and pass them up unchanged.
type Responder struct {
	Log zerolog.Logger
	Dev bool
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.BadRequest, apperr.ValidationFailed:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the envelope for a failure. Operational kinds return
// their message verbatim and log at warn with enough context to spot
// abuse patterns. Internal failures log full detail server-side and
// return an opaque message; development mode additionally echoes the
// cause.
func (r *Responder) Error(c *gin.Context, err error) {
	e := apperr.From(err)
	status := statusFor(e.Kind)

	if e.Kind == apperr.Internal {
		evt := r.Log.Error().Err(e.Err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method)
		if user := GetAuthUser(c); user != nil {
			evt = evt.Int64("user_id", user.ID)
		}
		evt.Msg("internal error")

		message := "internal server error"
		if r.Dev && e.Err != nil {
			message = e.Err.Error()
		}
		c.AbortWithStatusJSON(status, model.Envelope{Status: "error", Message: message})
		return
	}

	r.Log.Warn().
		Str("kind", e.Kind.String()).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Str("client_ip", c.ClientIP()).
		Msg(e.Message)

	c.AbortWithStatusJSON(status, model.Envelope{
		Status:  "error",
		Message: e.Message,
		Errors:  e.Fields,
	})
}

func (r *Responder) OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, model.Success(message, data))
}

func (r *Responder) Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, model.Success(message, data))
}
