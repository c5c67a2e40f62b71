package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type MovementController struct {
	transferService    services.TransferServiceInterface
	maintenanceService services.MaintenanceServiceInterface
	logger             *zap.Logger
}

func NewMovementController(
	transferService services.TransferServiceInterface,
	maintenanceService services.MaintenanceServiceInterface,
	logger *zap.Logger,
) *MovementController {
	return &MovementController{
		transferService:    transferService,
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

func (c *MovementController) Transfer(ctx echo.Context) error {
	var payload dto.TransferRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.transferService.Transfer(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := http.StatusOK
	if len(res.Failures) > 0 {
		code = http.StatusMultiStatus
	}
	return utils.SuccessResponse(ctx, res, "transfer processed", code)
}

func (c *MovementController) ScheduleMaintenance(ctx echo.Context) error {
	var payload dto.ScheduleMaintenanceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.maintenanceService.ScheduleMaintenance(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := http.StatusCreated
	if len(res.Failures) > 0 {
		code = http.StatusMultiStatus
	}
	return utils.SuccessResponse(ctx, res, "maintenance scheduled", code)
}

func (c *MovementController) CompleteMaintenance(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewValidationError("invalid movement id", map[string]interface{}{"param": ctx.Param("id")}), c.logger)
	}

	var payload dto.CompleteMaintenanceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.maintenanceService.CompleteMaintenance(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "maintenance completed", http.StatusOK)
}

func (c *MovementController) ListMaintenance(ctx echo.Context) error {
	filter, format := c.parseMaintenanceFilter(ctx)

	res, err := c.maintenanceService.ListMaintenance(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, res.Items)
	}
	return utils.SuccessResponse(ctx, res, "maintenance list retrieved", http.StatusOK, res.Total)
}

func (c *MovementController) parseMaintenanceFilter(ctx echo.Context) (dto.MaintenanceFilter, string) {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := dto.MaintenanceFilter{
		Limit:  stdFilter.Limit,
		Offset: stdFilter.Offset,
		Kind:   ctx.QueryParam("kind"),
		Status: ctx.QueryParam("status"),
	}
	format := strings.ToLower(ctx.QueryParam("format"))

	if format == "xlsx" {
		filter.Limit = 100000
		filter.Offset = 0
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

	return filter, format
}

var maintenanceHeaders = []string{
	"Folio", "Serial", "Equipo", "Estado", "Tipo", "Prioridad",
	"Fecha programada", "Horas estimadas", "Horas reales", "Tecnico", "Descripcion",
}

func maintenanceRow(item dto.MaintenanceItemDTO) []interface{} {
	dateFmt := "02.01.2006"
	var actualHours string
	if item.ActualHours != nil {
		actualHours = fmt.Sprintf("%.2f", *item.ActualHours)
	}
	return []interface{}{
		item.Folio, item.EquipoSerial, item.EquipmentName, item.Estado, item.Kind, item.Priority,
		item.ScheduledDate.Format(dateFmt), item.EstimatedHours, actualHours,
		item.TechnicianName, item.Description,
	}
}

func (c *MovementController) respondWithXLSX(ctx echo.Context, items []dto.MaintenanceItemDTO) error {
	f := excelize.NewFile()
	sheet := "Mantenimientos"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &maintenanceHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	for i, item := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := maintenanceRow(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "A", 38)
	f.SetColWidth(sheet, "B", "C", 25)
	f.SetColWidth(sheet, "J", "K", 30)

	fileName := fmt.Sprintf("mantenimientos_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
