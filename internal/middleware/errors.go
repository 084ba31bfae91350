package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sarkargroup/smd-backend/pkg/logger"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

// FieldError is one failed validation rule.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ErrorHandler renders the last error a handler recorded with c.Error. When
// uniform is set every failure is answered with HTTP 400.
func ErrorHandler(uniform bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := classify(c.Errors.Last().Err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error().Err(appErr.Err).Str("path", c.Request.URL.Path).Msg("[Error] Request failed")
		}
		if uniform {
			cp := *appErr
			cp.HTTPStatus = http.StatusBadRequest
			appErr = &cp
		}
		response.Error(c, appErr)
	}
}

// classify maps an arbitrary error to an AppError.
func classify(err error) *response.AppError {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Path: fe.Field(), Message: validationMessage(fe)})
		}
		return response.NewBadRequest("Validation Error").WithDetails(fields).Wrap(err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return response.NewBadRequest("Invalid request body").Wrap(err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.NewNotFound("Record not found.").Wrap(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return response.NewConflict("Duplicate entry.").Wrap(err)
	}

	return response.NewServerError("Something went wrong!").Wrap(err)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " long"
	case "enum":
		return fe.Field() + " has an unsupported value"
	}
	return fe.Field() + " failed on " + fe.Tag()
}

// NotFound answers unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "API NOT FOUND!", FieldError{
			Path:    c.Request.URL.Path,
			Message: "Your requested path is not found!",
		})
	}
}
