package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/logger"
	"github.com/micollege/elms/internal/middleware"
	"github.com/micollege/elms/internal/service"
	"github.com/micollege/elms/internal/service/serviceutils"
)

// AuthHandler serves the /auth route group.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// sessionPayload is the login/registration response body.
type sessionPayload struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	var fields []domain.FieldError
	if req.Email == "" {
		fields = append(fields, domain.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if req.Password == "" {
		fields = append(fields, domain.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(fields) > 0 {
		return serviceutils.TranslateError(c, domain.NewValidationError(fields...))
	}

	user, token, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}

	logger.InfoLog(c.Request().Context(), "login successful for %s", user.Email)
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Login successful", sessionPayload{User: user, Token: token})
}

func (h *AuthHandler) RegisterHandler(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	user, token, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "User registered successfully", sessionPayload{User: user, Token: token})
}

func (h *AuthHandler) MeHandler(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return serviceutils.TranslateError(c, domain.ErrUnauthenticated)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Current user retrieved successfully", echo.Map{"user": user})
}

func (h *AuthHandler) ChangePasswordHandler(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if req.CurrentPassword == "" {
		return serviceutils.TranslateError(c, domain.NewValidationError(
			domain.FieldError{Field: "currentPassword", Message: "Current password is required"}))
	}

	claims := middleware.Claims(c)
	if claims == nil {
		return serviceutils.TranslateError(c, domain.ErrUnauthenticated)
	}

	if err := h.svc.ChangePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	// Stateless tokens: logout is client-side discard.
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Logged out successfully", nil)
}
