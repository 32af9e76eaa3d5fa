package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
)

type (
	SessionRequest struct {
		Session string `json:"session" validate:"required,notblank"`
	}

	ClassRequest struct {
		Name string `json:"name" validate:"required,notblank"`
	}
)

func (sr *SessionRequest) Validate(validate *validator.Validate) error {
	sr.Session = core.CleanString(sr.Session)
	return validate.Struct(sr)
}

func (cr *ClassRequest) Validate(validate *validator.Validate) error {
	cr.Name = core.CleanString(cr.Name)
	return validate.Struct(cr)
}

func (s *server) registerProfileAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	pg := g.Group("/profile", jwt, s.staffMiddleware())
	pg.PUT("", s.updateProfile)
	pg.POST("/session", s.switchSession)

	// any authenticated user may read the school profile; registered after the group catch-all
	g.GET("/profile", s.retrieveProfile, jwt)

	cg := g.Group("/classes", jwt, s.staffMiddleware())
	cg.GET("", s.queryClasses)
	cg.POST("", s.createClass)
	cg.DELETE("/:name", s.destroyClass)
}

// Handlers

func (s *server) retrieveProfile(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.deps.Store.Profile(ctx.Request().Context()))
}

func (s *server) updateProfile(ctx echo.Context) error {
	var data school.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	profile := data.Profile()
	if err := s.deps.Store.UpdateProfile(ctx.Request().Context(), profile); err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

// switchSession makes the session current, registering it first when unknown.
func (s *server) switchSession(ctx echo.Context) error {
	var data SessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SessionRequest")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if err := s.deps.Store.SwitchSession(reqCtx, data.Session); err != nil {
		return errors.Wrap(err, "switching session")
	}
	return ctx.JSON(http.StatusOK, s.deps.Store.Profile(reqCtx))
}

func (s *server) queryClasses(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.deps.Store.Classes(ctx.Request().Context()))
}

func (s *server) createClass(ctx echo.Context) error {
	var data ClassRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClassRequest")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if err := s.deps.Store.AddClass(reqCtx, data.Name); err != nil {
		return errors.Wrap(err, "adding class")
	}
	return ctx.JSON(http.StatusCreated, s.deps.Store.Classes(reqCtx))
}

func (s *server) destroyClass(ctx echo.Context) error {
	if err := s.deps.Store.DeleteClass(ctx.Request().Context(), ctx.Param("name")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}
