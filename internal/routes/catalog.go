package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runCatalogRouter(api *echo.Group, ctrl *controllers.CatalogController) {
	catalogs := api.Group("/catalogs")
	catalogs.GET("/equipment-statuses", ctrl.EquipmentStatuses)
	catalogs.GET("/equipment-types", ctrl.EquipmentTypes)
	catalogs.GET("/movement-types", ctrl.MovementTypes)
	catalogs.GET("/movement-statuses", ctrl.MovementStatuses)
	catalogs.GET("/ubicaciones", ctrl.Ubicaciones)
	catalogs.GET("/sucursales", ctrl.Sucursales)
}
