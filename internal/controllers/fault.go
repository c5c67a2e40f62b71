package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type FaultController struct {
	faultService services.FaultServiceInterface
	logger       *zap.Logger
}

func NewFaultController(faultService services.FaultServiceInterface, logger *zap.Logger) *FaultController {
	return &FaultController{faultService: faultService, logger: logger}
}

func (c *FaultController) ReportFault(ctx echo.Context) error {
	var payload dto.ReportFaultDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.faultService.ReportFault(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "fault reported", http.StatusCreated)
}

func (c *FaultController) UpdateFault(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewValidationError("invalid fault id", map[string]interface{}{"param": ctx.Param("id")}), c.logger)
	}

	var payload dto.UpdateFaultDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}

	res, err := c.faultService.UpdateFault(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "fault updated", http.StatusOK)
}

func (c *FaultController) FindFault(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewValidationError("invalid fault id", map[string]interface{}{"param": ctx.Param("id")}), c.logger)
	}

	res, err := c.faultService.FindFault(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "fault found", http.StatusOK)
}

func (c *FaultController) ListFaults(ctx echo.Context) error {
	filter := c.parseFaultFilter(ctx)

	res, total, err := c.faultService.ListFaults(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "fault list retrieved", http.StatusOK, total)
}

func (c *FaultController) parseFaultFilter(ctx echo.Context) dto.FaultFilter {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := dto.FaultFilter{
		Limit:     stdFilter.Limit,
		Offset:    stdFilter.Offset,
		Categoria: ctx.QueryParam("categoria"),
		Prioridad: ctx.QueryParam("prioridad"),
		Estado:    ctx.QueryParam("estado"),
	}

	if v := ctx.QueryParam("sucursal_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.SucursalID = id
		}
	}
	if v := ctx.QueryParam("technician_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.TechnicianID = id
		}
	}
	if df := ctx.QueryParam("date_from"); df != "" {
		if t, err := time.Parse(time.RFC3339, df); err == nil {
			filter.DateFrom = &t
		}
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			filter.DateTo = &t
		}
	}

	return filter
}
