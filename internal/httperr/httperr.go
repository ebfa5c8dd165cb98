package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Unprocessable(c *gin.Context, code, message string) {
	Write(c, http.StatusUnprocessableEntity, code, message)
}

// Respond maps a use case error onto the HTTP taxonomy. Anything that is not
// a BusinessError is logged and reported as a 500.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Internal(c, "internal_error", "Something went wrong.")
		return
	}

	msg := MessageFor(be.Code)

	switch be.Kind {
	case KindAuthentication:
		Unauthorized(c, be.Code, msg)
	case KindAuthorization:
		Forbidden(c, be.Code, msg)
	case KindNotFound:
		NotFound(c, be.Code, msg)
	case KindConflict:
		Conflict(c, be.Code, msg)
	default:
		Unprocessable(c, be.Code, msg)
	}
}
