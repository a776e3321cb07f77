package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/service"
	"github.com/locvowork/sales_commission/internal/service/serviceutils"
)

// ReferenceHandler serves salespeople, sales and rules
type ReferenceHandler struct {
	svc *service.ReferenceService
	loc *time.Location
}

func NewReferenceHandler(svc *service.ReferenceService, loc *time.Location) *ReferenceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReferenceHandler{svc: svc, loc: loc}
}

// ==================== Salespeople ====================

func (h *ReferenceHandler) ListSalespeopleHandler(c echo.Context) error {
	people, err := h.svc.ListSalespeople(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to list salespeople", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Salespeople listed successfully", people)
}

func (h *ReferenceHandler) CreateSalespersonHandler(c echo.Context) error {
	var req CreateSalespersonRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	sp, err := req.toDomain(h.loc)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid joined_at", err)
	}

	if err := h.svc.CreateSalesperson(c.Request().Context(), &sp); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to create salesperson", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Salesperson created successfully", sp)
}

// ==================== Sales ====================

// ListSalesHandler handles GET /api/sales?start_date=&end_date=
func (h *ReferenceHandler) ListSalesHandler(c echo.Context) error {
	period, err := domain.ParsePeriod(c.QueryParam("start_date"), c.QueryParam("end_date"), h.loc)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid period", err)
	}

	sales, err := h.svc.ListSales(c.Request().Context(), period)
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to list sales", err)
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Sales listed successfully", sales)
}

func (h *ReferenceHandler) CreateSaleHandler(c echo.Context) error {
	var req CreateSaleRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	sale, err := req.toDomain(h.loc)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid sale date", err)
	}

	if err := h.svc.CreateSale(c.Request().Context(), &sale); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to create sale", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Sale created successfully", sale)
}

// ==================== Rules ====================

func (h *ReferenceHandler) ListRulesHandler(c echo.Context) error {
	rules, err := h.svc.ListRules(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to list rules", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Rules listed successfully", rules)
}

func (h *ReferenceHandler) CreateRuleHandler(c echo.Context) error {
	var req CreateRuleRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	rule := req.toDomain()
	if err := h.svc.CreateRule(c.Request().Context(), &rule); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to create rule", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Rule created successfully", rule)
}

// RuleCoverageHandler reports gaps and overlaps in the active tiers
func (h *ReferenceHandler) RuleCoverageHandler(c echo.Context) error {
	issues, err := h.svc.RuleCoverage(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to check rule coverage", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Rule coverage checked", issues)
}
