package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
)

// InitRouter wires repositories, services and controllers and mounts every
// route group under /api. Reads stay public; everything that mutates state
// sits behind the auth middleware.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	equipmentRepo := repositories.NewEquipmentRepository(dbConn, logger)
	movementRepo := repositories.NewMovementRepository(dbConn, logger)
	faultRepo := repositories.NewFaultRepository(dbConn, logger)
	catalogRepo := repositories.NewCatalogRepository(dbConn, logger)
	userRepo := repositories.NewUserRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	equipmentService := services.NewEquipmentService(equipmentRepo, logger)
	transferService := services.NewTransferService(equipmentRepo, movementRepo, catalogRepo, userRepo, txManager, logger)
	maintenanceService := services.NewMaintenanceService(equipmentRepo, movementRepo, catalogRepo, userRepo, faultRepo, txManager, logger)
	faultService := services.NewFaultService(faultRepo, equipmentRepo, catalogRepo, userRepo, txManager, logger)
	catalogService := services.NewCatalogService(catalogRepo, cacheRepo, cfg.Cache.CatalogTTL, logger)
	authService := services.NewAuthService(userRepo, jwtSvc, logger)

	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)
	movementCtrl := controllers.NewMovementController(transferService, maintenanceService, logger)
	faultCtrl := controllers.NewFaultController(faultService, logger)
	catalogCtrl := controllers.NewCatalogController(catalogService, logger)
	authCtrl := controllers.NewAuthController(authService, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authCtrl)
	runCatalogRouter(api, catalogCtrl)
	runEquipmentRouter(api, secureGroup, equipmentCtrl)
	runMovementRouter(api, secureGroup, movementCtrl)
	runFaultRouter(api, secureGroup, faultCtrl)
}
