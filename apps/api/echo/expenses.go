package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/store"
)

func (s *server) registerExpenseAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	eg := g.Group("/expenses", jwt, s.staffMiddleware())
	eg.GET("", s.queryExpenses)
	eg.POST("", s.createExpense)
	eg.PUT("/:id", s.updateExpense)
	eg.DELETE("/:id", s.destroyExpense)
}

func findExpense(expenses []school.Expense, id string) (school.Expense, bool) {
	for _, e := range expenses {
		if e.ID.String() == id {
			return e, true
		}
	}
	return school.Expense{}, false
}

// Handlers

func (s *server) queryExpenses(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	expenses := s.deps.Store.Expenses(reqCtx)
	if ctx.QueryParam("all") != "true" {
		expenses = school.ExpensesInSession(expenses, s.deps.Store.Profile(reqCtx).CurrentSession)
	}
	if category := ctx.QueryParam("category"); category != "" {
		filtered := make([]school.Expense, 0, len(expenses))
		for _, e := range expenses {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}
	return ctx.JSON(http.StatusOK, expenses)
}

func (s *server) createExpense(ctx echo.Context) error {
	var data school.NewExpense
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	e := data.Expense(store.NewExpenseID(), s.deps.Store.Profile(reqCtx).CurrentSession)
	if err := s.deps.Store.AddExpense(reqCtx, e); err != nil {
		return errors.Wrap(err, "creating expense")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (s *server) updateExpense(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	old, ok := findExpense(s.deps.Store.Expenses(reqCtx), ctx.Param("id"))
	if !ok {
		return errHttpNotFound
	}

	var data school.NewExpense
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	e := data.Expense(old.ID.String(), old.Session)
	if err := s.deps.Store.UpdateExpense(reqCtx, e); err != nil {
		return errors.Wrap(err, "updating expense")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (s *server) destroyExpense(ctx echo.Context) error {
	if err := s.deps.Store.DeleteExpense(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting expense")
	}
	return ctx.NoContent(http.StatusNoContent)
}
