package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the success envelope.
type Response struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Meta       interface{} `json:"meta,omitempty"`
	Data       interface{} `json:"data"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   interface{} `json:"error"`
}

// ErrorBody is the payload under ErrorResponse.Error for application errors.
type ErrorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// AppError represents a structured application error with HTTP status and error code.
type AppError struct {
	HTTPStatus int         // HTTP status code (e.g. 400, 404, 500)
	Code       int         // Application-level error code
	Message    string      // Human-readable error message
	Details    interface{} // Optional structured context, e.g. field errors
	Err        error       // Underlying cause, never rendered
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetails returns a copy carrying structured details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Wrap returns a copy that records cause as the underlying error.
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.Err = cause
	return &cp
}

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Code: 400, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Code: 401, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Code: 403, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Code: 404, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Code: 409, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Code: 500, Message: msg}
}

// IsStatus reports whether err is an AppError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus == status
}

// --- Gin response helpers ---

// OK sends a 200 response with data.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	})
}

// Created sends a 201 Created response with data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success:    true,
		StatusCode: http.StatusCreated,
		Message:    message,
		Data:       data,
	})
}

// Paginated sends a 200 response with pagination metadata.
func Paginated(c *gin.Context, message string, meta interface{}, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Meta:       meta,
		Data:       data,
	})
}

// Fail writes the failure envelope with an arbitrary error payload.
func Fail(c *gin.Context, status int, message string, body interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Message: message,
		Error:   body,
	})
}

// Error sends an error response. If err is an *AppError, its code and status
// are used; otherwise a generic 500 internal server error is returned.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		Fail(c, appErr.HTTPStatus, appErr.Message, ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}
	Fail(c, http.StatusInternalServerError, "Something went wrong!", ErrorBody{
		Code:    500,
		Message: err.Error(),
	})
}
