package middleware

import (
	stderrors "errors"

	"github.com/architect/studyquest/internal/common/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorHandler middleware catches panics and converts them to proper error responses
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				appErr := errors.Internal("internal server error", "")
				c.JSON(appErr.Status, appErr)
			}
		}()
		c.Next()

		// Check if an error response was already sent
		if c.Writer.Status() >= 400 {
			return
		}
	}
}

// JSONErrorResponse wraps errors in consistent JSON format
func JSONErrorResponse(c *gin.Context, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		var validationErrs validator.ValidationErrors
		switch {
		case err == nil:
			appErr = errors.Unauthorized("missing authentication context")
		case stderrors.As(err, &validationErrs):
			appErr = errors.Validation("request validation failed", validationErrs.Error())
		default:
			appErr = errors.BadRequest(err.Error())
		}
	}

	c.JSON(appErr.Status, appErr)
}
