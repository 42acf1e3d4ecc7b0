package serviceutils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micollege/elms/internal/config"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/logger"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// ResponseSuccess writes a success envelope.
func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// ResponseError writes a failure envelope and logs the underlying cause.
func ResponseError(c echo.Context, status int, message string, err error) error {
	if err != nil {
		logger.ErrorLog(c.Request().Context(), message, err)
	}
	return c.JSON(status, Response{Success: false, Message: message})
}

// ResponseErrors writes a failure envelope carrying an itemized errors array.
func ResponseErrors(c echo.Context, status int, message string, errs interface{}) error {
	return c.JSON(status, Response{Success: false, Message: message, Errors: errs})
}

// TranslateError is the single point mapping domain outcomes to status codes.
func TranslateError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Fields) > 0 {
			return ResponseErrors(c, http.StatusBadRequest, verr.Message, verr.Fields)
		}
		return ResponseError(c, http.StatusBadRequest, verr.Message, nil)
	case domain.IsConflict(err):
		return ResponseError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAccountDeactivated),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUnauthenticated):
		return ResponseError(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrCrossDepartment):
		return ResponseError(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return ResponseError(c, http.StatusNotFound, err.Error(), nil)
	default:
		msg := "Internal server error"
		if config.DefaultEnvConfig != nil && config.DefaultEnvConfig.IsDevelopment() {
			msg = err.Error()
		}
		return ResponseError(c, http.StatusInternalServerError, msg, err)
	}
}
