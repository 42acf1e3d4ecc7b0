package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/micollege/elms/internal/auth"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/middleware"
	"github.com/micollege/elms/internal/service"
	"github.com/micollege/elms/internal/service/serviceutils"
)

// UserHandler serves the /users route group.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) ListHandler(c echo.Context) error {
	claims := middleware.Claims(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	filter := domain.UserFilter{
		Department: c.QueryParam("department"),
		Limit:      limit,
		Offset:     offset,
	}
	if role := c.QueryParam("role"); role != "" {
		parsed, ok := domain.ParseRole(role)
		if !ok {
			return serviceutils.TranslateError(c, domain.Validationf("Invalid role"))
		}
		filter.Role = parsed
	}

	// Department heads only see their own department, whatever was asked.
	if claims != nil && claims.Role == domain.RoleHOD {
		filter.Department = claims.Department
	}
	if err := auth.Authorize(claims, []domain.Role{domain.RoleHOD}, filter.Department); err != nil {
		return serviceutils.TranslateError(c, err)
	}

	users, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Users listed successfully", echo.Map{"users": users, "count": len(users)})
}

func (h *UserHandler) SearchHandler(c echo.Context) error {
	claims := middleware.Claims(c)
	q := c.QueryParam("q")
	if q == "" {
		return serviceutils.TranslateError(c, domain.Validationf("Search query is required"))
	}

	department := c.QueryParam("department")
	if claims != nil && claims.Role == domain.RoleHOD {
		department = claims.Department
	}
	if err := auth.Authorize(claims, []domain.Role{domain.RoleHOD}, department); err != nil {
		return serviceutils.TranslateError(c, err)
	}

	docs, err := h.svc.Search(c.Request().Context(), q, department)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Search completed successfully", echo.Map{"results": docs, "count": len(docs)})
}

func (h *UserHandler) GetHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return serviceutils.TranslateError(c, domain.Validationf("Invalid user ID"))
	}

	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}

	claims := middleware.Claims(c)
	if claims == nil || claims.UserID != id {
		if err := auth.Authorize(claims, []domain.Role{domain.RoleHOD}, user.Department); err != nil {
			return serviceutils.TranslateError(c, err)
		}
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "User retrieved successfully", echo.Map{"user": user})
}

func (h *UserHandler) UpdateHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return serviceutils.TranslateError(c, domain.Validationf("Invalid user ID"))
	}

	var req service.UpdateInput
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	user, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "User updated successfully", echo.Map{"user": user})
}

func (h *UserHandler) DeleteHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return serviceutils.TranslateError(c, domain.Validationf("Invalid user ID"))
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "User deleted successfully", nil)
}
