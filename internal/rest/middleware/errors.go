package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-article-service/domain"
)

// StatusCode maps a domain error kind to its HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the client-facing text of err. Unexpected failures are reported
// as domain.ErrInternalServerError so store and driver details stay in the logs.
func Message(err error) string {
	if StatusCode(err) >= http.StatusInternalServerError {
		return domain.ErrInternalServerError.Error()
	}
	return err.Error()
}

// ErrorHandler renders the last error a handler forwarded with c.Error as
// {"message": ...}, unless the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		code := StatusCode(err)
		if code >= http.StatusInternalServerError {
			logrus.Error(err)
		}
		c.JSON(code, gin.H{"message": Message(err)})
	}
}
