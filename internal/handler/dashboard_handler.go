package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micollege/elms/internal/auth"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/middleware"
	"github.com/micollege/elms/internal/service"
	"github.com/micollege/elms/internal/service/serviceutils"
)

// DashboardHandler serves the /dashboard and /departments route groups.
type DashboardHandler struct {
	svc *service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) StatsHandler(c echo.Context) error {
	claims := middleware.Claims(c)
	if err := auth.Authorize(claims, []domain.Role{domain.RoleHOD}, ""); err != nil {
		return serviceutils.TranslateError(c, err)
	}

	department := ""
	if claims.Role == domain.RoleHOD {
		department = claims.Department
	}

	stats, err := h.svc.Stats(c.Request().Context(), department)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (h *DashboardHandler) MyHandler(c echo.Context) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return serviceutils.TranslateError(c, domain.ErrUnauthenticated)
	}

	summary, err := h.svc.My(c.Request().Context(), claims.UserID)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dashboard summary retrieved successfully", summary)
}

func (h *DashboardHandler) DepartmentsHandler(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context(), "")
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Departments listed successfully", echo.Map{"departments": stats.Departments})
}

func (h *DashboardHandler) DepartmentSummaryHandler(c echo.Context) error {
	claims := middleware.Claims(c)
	department := c.Param("name")
	if err := auth.Authorize(claims, []domain.Role{domain.RoleHOD}, department); err != nil {
		return serviceutils.TranslateError(c, err)
	}

	summary, err := h.svc.DepartmentSummary(c.Request().Context(), department)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Department summary retrieved successfully", summary)
}
