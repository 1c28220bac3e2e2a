package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type DashboardHTTP struct {
	Svc *service.DashboardService
}

func (h *DashboardHTTP) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.get_dashboard")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	snap, err := h.Svc.Snapshot(ctx, userID)
	if err != nil {
		return failure{op: "get_dashboard", internal: "Failed to retrieve dashboard data"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, snap)
}
