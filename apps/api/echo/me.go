package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/school"
)

type MeResponse struct {
	User    school.User     `json:"user"`
	Student *school.Student `json:"student,omitempty"`
}

func (s *server) registerMeAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	mg := g.Group("/me", jwt)
	mg.GET("", s.me)
	mg.GET("/ledger", s.myLedger, s.roleMiddleware(school.RoleStudent, school.RoleParent))
}

// ownStudent is the record of a STUDENT user, or the ward of a PARENT.
func (s *server) ownStudent(ctx echo.Context) (school.Student, error) {
	usr, err := s.getContextUser(ctx)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "getting context user")
	}
	if usr.StudentID == "" {
		return school.Student{}, errHttpNotFound
	}
	st, err := s.deps.Store.GetStudent(ctx.Request().Context(), usr.StudentID)
	if err != nil {
		if err == school.ErrNotFound {
			return school.Student{}, errHttpNotFound
		}
		return school.Student{}, errors.Wrap(err, "finding student by ID")
	}
	return st, nil
}

// Handlers

func (s *server) me(ctx echo.Context) error {
	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	res := MeResponse{User: usr.Public()}
	if usr.IsStudent() || usr.IsParent() {
		if st, err := s.ownStudent(ctx); err == nil {
			pub := st.Public()
			res.Student = &pub
		}
	}
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) myLedger(ctx echo.Context) error {
	st, err := s.ownStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s.ledgerOf(ctx, st))
}
