package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runAuthRouter(api *echo.Group, ctrl *controllers.AuthController) {
	api.POST("/auth/login", ctrl.Login)
}
