package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runMovementRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.MovementController) {
	api.GET("/maintenance", ctrl.ListMaintenance)

	secure.POST("/transfers", ctrl.Transfer)
	secure.POST("/maintenance", ctrl.ScheduleMaintenance)
	secure.PUT("/maintenance/:id/complete", ctrl.CompleteMaintenance)
}
