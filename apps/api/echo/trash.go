package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/trash"
)

func (s *server) registerTrashAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	tg := g.Group("/trash", jwt, s.adminMiddleware())
	tg.GET("", s.queryTrash)
	tg.DELETE("", s.emptyTrash)
	tg.POST("/:id/restore", s.restoreTrashItem)
	tg.DELETE("/:id", s.destroyTrashItem)
}

// Handlers

func (s *server) queryTrash(ctx echo.Context) error {
	items := s.deps.Store.Trash(ctx.Request().Context())
	for i, it := range items {
		if it.Student != nil {
			st := it.Student.Public()
			items[i].Student = &st
		}
	}
	if items == nil {
		items = []trash.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (s *server) restoreTrashItem(ctx echo.Context) error {
	ok, err := s.deps.Store.RestoreFromTrash(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "restoring trash item")
	}
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Item restored."})
}

func (s *server) destroyTrashItem(ctx echo.Context) error {
	if err := s.deps.Store.PermanentDeleteTrashItem(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting trash item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) emptyTrash(ctx echo.Context) error {
	if err := s.deps.Store.EmptyTrash(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "emptying trash")
	}
	return ctx.NoContent(http.StatusNoContent)
}
