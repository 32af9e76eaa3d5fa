package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/ledger"
	"github.com/trezcool/feedesk/core/school"
)

const recentPaymentsCount = 5

type DashboardResponse struct {
	Summary        ledger.Summary         `json:"summary"`
	RecentPayments []school.Payment       `json:"recentPayments"`
	Defaulters     []ledger.StudentLedger `json:"defaulters"`
}

func (s *server) registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	g.GET("/dashboard", s.dashboard, jwt, s.staffMiddleware())
	g.GET("/insights", s.insights, jwt, s.staffMiddleware())
}

// Handlers

func (s *server) dashboard(ctx echo.Context) error {
	snap := s.deps.Store.Active(ctx.Request().Context())
	today := core.Today()

	res := DashboardResponse{
		Summary:        ledger.Summarize(snap, today),
		RecentPayments: ledger.RecentPayments(snap.Payments, recentPaymentsCount),
		Defaulters:     ledger.Defaulters(snap, today),
	}
	if res.RecentPayments == nil {
		res.RecentPayments = []school.Payment{}
	}
	if res.Defaulters == nil {
		res.Defaulters = []ledger.StudentLedger{}
	}
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) insights(ctx echo.Context) error {
	if !s.deps.Conf.InsightsEnabled() {
		return errInsightsUnavailable
	}
	snap := s.deps.Store.Active(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, echo.Map{"insights": ledger.Insights(ledger.Summarize(snap, core.Today()))})
}
