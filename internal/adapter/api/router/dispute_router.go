package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/handler"
	"tukarlapak/internal/adapter/api/middleware"
)

func SetupDisputeRouter(
	e *echo.Echo,
	disputeHandler *handler.DisputeHandler,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
) {
	disputes := e.Group("/v1/disputes", authMiddleware.Authenticate)
	disputes.POST("", disputeHandler.CreateDispute)
	disputes.GET("", disputeHandler.ListDisputes)
	disputes.GET("/:id", disputeHandler.GetDispute)
	disputes.POST("/:id/response", disputeHandler.SellerRespond)

	admin := e.Group("/v1/admin/disputes", authMiddleware.Authenticate, adminMiddleware.AdminOnly)
	admin.GET("", disputeHandler.AdminListDisputes)
	admin.POST("/:id/resolve", disputeHandler.AdminResolve)
	admin.POST("/sweep", disputeHandler.TriggerSweep)
}
