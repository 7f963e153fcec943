package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/handler"
	"tukarlapak/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	disputeHandler *handler.DisputeHandler,
) {
	SetupDisputeRouter(e, disputeHandler, authMiddleware, adminMiddleware)
	SetupHealthRouter(e)
}
