package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/ledger"
	"github.com/trezcool/feedesk/core/school"
)

var errStudentExists = "a student with this id already exists"

// StudentRow is a listed student along with their aggregate ledger figures.
type StudentRow struct {
	school.Student
	Status        ledger.Status `json:"status"`
	TotalExpected float64       `json:"totalExpected"`
	TotalPaid     float64       `json:"totalPaid"`
	TotalDue      float64       `json:"totalDue"`
}

func (s *server) registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	sg := g.Group("/students", jwt, s.staffMiddleware())
	sg.GET("", s.queryStudents)
	sg.POST("", s.createStudent)
	sg.GET("/next-id", s.nextStudentID)

	// detail endpoints
	dg := sg.Group("/:id", s.studentMiddleware)
	dg.GET("", s.retrieveStudent)
	dg.PUT("", s.updateStudent)
	dg.DELETE("", s.destroyStudent)
	dg.GET("/ledger", s.studentLedger)
}

// studentMiddleware loads the :id student into the context as "object".
func (s *server) studentMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		st, err := s.deps.Store.GetStudent(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			if err == school.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding student by ID")
		}
		ctx.Set("object", st)
		return next(ctx)
	}
}

func contextStudent(ctx echo.Context) school.Student {
	st, _ := ctx.Get("object").(school.Student)
	return st
}

// Handlers

func (s *server) queryStudents(ctx echo.Context) error {
	filter := new(StudentFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []StudentRow{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	reqCtx := ctx.Request().Context()
	session := s.deps.Store.Profile(reqCtx).CurrentSession
	students := s.deps.Store.Students(reqCtx)
	if !filter.AllSessions {
		students = school.StudentsInSession(students, session)
	}
	fees := s.deps.Store.Fees(reqCtx)
	payments := s.deps.Store.Payments(reqCtx)
	if !filter.AllSessions {
		fees = school.FeesInSession(fees, session)
		payments = school.PaymentsInSession(payments, session)
	}

	matched := make([]school.Student, 0, len(students))
	for _, st := range students {
		if filter.Match(st) {
			matched = append(matched, st)
		}
	}
	ordering.SortStudents(matched)

	today := core.Today()
	rows := make([]StudentRow, 0, len(matched))
	for _, st := range matched {
		l := ledger.ForStudent(st, fees, payments, today)
		rows = append(rows, StudentRow{
			Student:       st.Public(),
			Status:        l.Status,
			TotalExpected: l.TotalExpected,
			TotalPaid:     l.TotalPaid,
			TotalDue:      l.TotalDue,
		})
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (s *server) nextStudentID(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"id": s.deps.Store.GenerateStudentID(ctx.Request().Context())})
}

func (s *server) createStudent(ctx echo.Context) error {
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if data.ID != "" {
		if _, err := s.deps.Store.GetStudent(reqCtx, data.ID); err == nil {
			return core.NewValidationError(nil, core.FieldError{Field: "id", Error: errStudentExists})
		}
	}

	st, err := data.Student(s.deps.Store.GenerateStudentID(reqCtx), s.deps.Store.Profile(reqCtx).CurrentSession)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err = s.deps.Store.AddStudent(reqCtx, st); err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st.Public())
}

func (s *server) retrieveStudent(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextStudent(ctx).Public())
}

func (s *server) updateStudent(ctx echo.Context) error {
	old := contextStudent(ctx)

	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	data.ID = ""
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	st, err := data.Student(old.ID, old.Session)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if data.Password == "" {
		st.PasswordHash = old.PasswordHash
	}
	if err = s.deps.Store.UpdateStudent(ctx.Request().Context(), st); err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st.Public())
}

// destroyStudent refuses to delete a student still referenced by payments.
func (s *server) destroyStudent(ctx echo.Context) error {
	st := contextStudent(ctx)
	reqCtx := ctx.Request().Context()

	if len(school.PaymentsOf(s.deps.Store.Payments(reqCtx), st.ID)) > 0 {
		return core.NewValidationError(school.ErrStudentHasPayments)
	}
	if err := s.deps.Store.DeleteStudent(reqCtx, st.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) studentLedger(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.ledgerOf(ctx, contextStudent(ctx)))
}

// ledgerOf computes the ledger of st over the fees and payments of the current session.
func (s *server) ledgerOf(ctx echo.Context, st school.Student) ledger.StudentLedger {
	reqCtx := ctx.Request().Context()
	session := s.deps.Store.Profile(reqCtx).CurrentSession
	fees := school.FeesInSession(s.deps.Store.Fees(reqCtx), session)
	payments := school.PaymentsInSession(s.deps.Store.Payments(reqCtx), session)
	return ledger.ForStudent(st, fees, payments, core.Today())
}
