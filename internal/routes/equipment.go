package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runEquipmentRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.EquipmentController) {
	api.GET("/equipment", ctrl.ListEquipment)
	api.GET("/equipment/deleted", ctrl.ListDeletedEquipment)
	api.GET("/equipment/:serial", ctrl.FindEquipment)

	secure.POST("/equipment", ctrl.CreateEquipment)
	secure.PUT("/equipment/:serial", ctrl.UpdateEquipment)
	secure.DELETE("/equipment/:serial", ctrl.DeleteEquipment)
	secure.POST("/equipment/:serial/restore", ctrl.RestoreEquipment)
}
