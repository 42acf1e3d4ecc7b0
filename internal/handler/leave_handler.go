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

// LeaveHandler serves the /leaves route group.
type LeaveHandler struct {
	svc *service.LeaveService
}

// NewLeaveHandler creates a LeaveHandler.
func NewLeaveHandler(svc *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{svc: svc}
}

type decisionRequest struct {
	Approve bool   `json:"approve"`
	Remark  string `json:"remark"`
}

func (h *LeaveHandler) ApplyHandler(c echo.Context) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return serviceutils.TranslateError(c, domain.ErrUnauthenticated)
	}

	var req service.ApplyInput
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	lr, err := h.svc.Apply(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Leave request submitted successfully", echo.Map{"leave": lr})
}

func (h *LeaveHandler) MyHandler(c echo.Context) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return serviceutils.TranslateError(c, domain.ErrUnauthenticated)
	}

	leaves, err := h.svc.ListMine(c.Request().Context(), claims.UserID)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Leave requests listed successfully", echo.Map{"leaves": leaves, "count": len(leaves)})
}

func (h *LeaveHandler) ListHandler(c echo.Context) error {
	claims := middleware.Claims(c)

	filter := domain.LeaveFilter{Department: c.QueryParam("department")}
	if statusParam := c.QueryParam("status"); statusParam != "" {
		filter.Status = domain.LeaveStatus(statusParam)
	}
	if claims != nil && claims.Role == domain.RoleHOD {
		filter.Department = claims.Department
	}
	if err := auth.Authorize(claims, []domain.Role{domain.RoleHOD}, filter.Department); err != nil {
		return serviceutils.TranslateError(c, err)
	}

	leaves, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Leave requests listed successfully", echo.Map{"leaves": leaves, "count": len(leaves)})
}

func (h *LeaveHandler) DecisionHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return serviceutils.TranslateError(c, domain.Validationf("Invalid leave request ID"))
	}

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	claims := middleware.Claims(c)
	lr, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	if err := auth.Authorize(claims, []domain.Role{domain.RoleHOD}, lr.Department); err != nil {
		return serviceutils.TranslateError(c, err)
	}

	decided, err := h.svc.Decide(c.Request().Context(), id, claims.UserID, req.Approve, req.Remark)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}

	msg := "Leave request rejected"
	if req.Approve {
		msg = "Leave request approved"
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, msg, echo.Map{"leave": decided})
}

func (h *LeaveHandler) WithdrawHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return serviceutils.TranslateError(c, domain.Validationf("Invalid leave request ID"))
	}

	claims := middleware.Claims(c)
	if claims == nil {
		return serviceutils.TranslateError(c, domain.ErrUnauthenticated)
	}

	if err := h.svc.Withdraw(c.Request().Context(), id, claims.UserID); err != nil {
		return serviceutils.TranslateError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Leave request withdrawn successfully", nil)
}
