package transport

import (
	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/portage/internal/service"
)

type Handler struct {
	svc *service.Service
}

func SetupRoute(e *echo.Echo, svc *service.Service) {
	h := &Handler{svc: svc}
	api := e.Group("/api/v1")

	api.POST("/relay", h.Relay)
	api.GET("/transfers", h.ListTransfers)
	api.GET("/transfers/:transfer_id", h.GetTransfer)
}
