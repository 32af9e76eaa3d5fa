package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/store"
)

func (s *server) registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	fg := g.Group("/fees", jwt, s.staffMiddleware())
	fg.GET("", s.queryFees)
	fg.POST("", s.createFee)
	fg.PUT("/:id", s.updateFee)
	fg.DELETE("/:id", s.destroyFee)
}

// Handlers

func (s *server) queryFees(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	fees := s.deps.Store.Fees(reqCtx)
	if ctx.QueryParam("all") != "true" {
		fees = school.FeesInSession(fees, s.deps.Store.Profile(reqCtx).CurrentSession)
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (s *server) createFee(ctx echo.Context) error {
	var data school.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	fee := data.Fee(store.NewFeeID(), s.deps.Store.Profile(reqCtx).CurrentSession)
	if err := s.deps.Store.AddFee(reqCtx, fee); err != nil {
		return errors.Wrap(err, "creating fee")
	}
	return ctx.JSON(http.StatusCreated, fee)
}

func (s *server) updateFee(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	old, ok := school.FindFee(s.deps.Store.Fees(reqCtx), ctx.Param("id"))
	if !ok {
		return errHttpNotFound
	}

	var data school.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	fee := data.Fee(old.ID, old.Session)
	if err := s.deps.Store.UpdateFee(reqCtx, fee); err != nil {
		return errors.Wrap(err, "updating fee")
	}
	return ctx.JSON(http.StatusOK, fee)
}

func (s *server) destroyFee(ctx echo.Context) error {
	if err := s.deps.Store.DeleteFee(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	return ctx.NoContent(http.StatusNoContent)
}
