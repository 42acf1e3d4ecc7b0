package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/excel"
	"github.com/micollege/elms/internal/logger"
	"github.com/micollege/elms/internal/metrics"
	"github.com/micollege/elms/internal/service/serviceutils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelHandler serves the /excel route group: template download and bulk import.
type ExcelHandler struct {
	importer *excel.Importer
	metrics  *metrics.Metrics
}

// NewExcelHandler creates an ExcelHandler. metrics may be nil.
func NewExcelHandler(importer *excel.Importer, metrics *metrics.Metrics) *ExcelHandler {
	return &ExcelHandler{importer: importer, metrics: metrics}
}

type uploadRequest struct {
	FileData string `json:"fileData"`
	FileName string `json:"fileName"`
}

func (h *ExcelHandler) TemplateHandler(c echo.Context) error {
	data, err := excel.BuildTemplate()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Error generating template", err)
	}

	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+excel.TemplateFileName+`"`)
	c.Response().Header().Set("Content-Length", strconv.Itoa(len(data)))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

func (h *ExcelHandler) UploadHandler(c echo.Context) error {
	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if req.FileData == "" || req.FileName == "" {
		return serviceutils.TranslateError(c, domain.Validationf("No file data provided"))
	}

	payload, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		return serviceutils.TranslateError(c, domain.Validationf("Could not parse Excel file data"))
	}

	ctx := c.Request().Context()
	logger.InfoLog(ctx, "processing excel upload %q (%d bytes)", req.FileName, len(payload))

	start := time.Now()
	result, err := h.importer.Import(ctx, payload)
	if err != nil {
		return serviceutils.TranslateError(c, err)
	}
	if h.metrics != nil {
		h.metrics.ObserveImport(result.Successful, len(result.Errors), time.Since(start))
	}

	if result.HasErrors() {
		return c.JSON(http.StatusBadRequest, serviceutils.Response{
			Success: false,
			Message: result.Message,
			Errors:  result.Errors,
			Data: echo.Map{
				"rowCount":   result.RowCount,
				"successful": result.Successful,
			},
		})
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, result.Message, result)
}
