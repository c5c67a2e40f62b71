package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runFaultRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.FaultController) {
	api.GET("/faults", ctrl.ListFaults)
	api.GET("/faults/:id", ctrl.FindFault)

	secure.POST("/faults", ctrl.ReportFault)
	secure.PUT("/faults/:id", ctrl.UpdateFault)
}
