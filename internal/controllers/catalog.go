package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

// CatalogController exposes the read-only reference tables.
type CatalogController struct {
	catalogService services.CatalogServiceInterface
	logger         *zap.Logger
}

func NewCatalogController(catalogService services.CatalogServiceInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalogService: catalogService, logger: logger}
}

func (c *CatalogController) EquipmentStatuses(ctx echo.Context) error {
	res, err := c.catalogService.EquipmentStatuses(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "equipment statuses retrieved", http.StatusOK)
}

func (c *CatalogController) EquipmentTypes(ctx echo.Context) error {
	res, err := c.catalogService.EquipmentTypes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "equipment types retrieved", http.StatusOK)
}

func (c *CatalogController) MovementTypes(ctx echo.Context) error {
	res, err := c.catalogService.MovementTypes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "movement types retrieved", http.StatusOK)
}

func (c *CatalogController) MovementStatuses(ctx echo.Context) error {
	res, err := c.catalogService.MovementStatuses(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "movement statuses retrieved", http.StatusOK)
}

func (c *CatalogController) Ubicaciones(ctx echo.Context) error {
	res, err := c.catalogService.Ubicaciones(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "locations retrieved", http.StatusOK)
}

func (c *CatalogController) Sucursales(ctx echo.Context) error {
	res, err := c.catalogService.Sucursales(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "branches retrieved", http.StatusOK)
}
