package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/service"
	"github.com/locvowork/sales_commission/internal/service/serviceutils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CommissionHandler struct {
	svc *service.CommissionService
	loc *time.Location
}

// NewCommissionHandler parses request dates in loc (UTC when nil).
func NewCommissionHandler(svc *service.CommissionService, loc *time.Location) *CommissionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &CommissionHandler{svc: svc, loc: loc}
}

// CalculateHandler handles POST /api/commissions
func (h *CommissionHandler) CalculateHandler(c echo.Context) error {
	var req CalculateRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	period, err := domain.ParsePeriod(req.StartDate, req.EndDate, h.loc)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid period", err)
	}

	report, err := h.svc.Calculate(c.Request().Context(), period)
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to calculate commissions", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Commissions calculated successfully", report)
}

// ExportHandler handles GET /api/commissions/export
func (h *CommissionHandler) ExportHandler(c echo.Context) error {
	period, err := domain.ParsePeriod(c.QueryParam("start_date"), c.QueryParam("end_date"), h.loc)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid period", err)
	}

	report, err := h.svc.Calculate(c.Request().Context(), period)
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to calculate commissions", err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+service.ExportFileName(period)+`"`)
	res.Header().Set(echo.HeaderContentType, xlsxContentType)
	if err := service.WriteReport(res, report); err != nil {
		if res.Committed {
			return err
		}
		res.Header().Del(echo.HeaderContentDisposition)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to export commissions", err)
	}
	return nil
}

// ArchiveHandler handles GET /api/commissions/archive?salesperson=
func (h *CommissionHandler) ArchiveHandler(c echo.Context) error {
	name := c.QueryParam("salesperson")
	if name == "" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "salesperson parameter required", nil)
	}

	docs, err := h.svc.SearchArchive(c.Request().Context(), name)
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to search archive", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Archived commissions retrieved successfully", docs)
}

// ArchivedRunHandler handles GET /api/commissions/archive/:run_id
func (h *CommissionHandler) ArchivedRunHandler(c echo.Context) error {
	docs, err := h.svc.ArchivedRun(c.Request().Context(), c.Param("run_id"))
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to load archived run", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Archived run retrieved successfully", docs)
}
