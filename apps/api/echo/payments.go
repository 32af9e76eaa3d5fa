package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/ledger"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/store"
	emailsvc "github.com/trezcool/feedesk/services/email"
)

type PaymentFilter struct {
	StudentID   string `query:"studentId"`
	AllSessions bool   `query:"all"`
}

func (s *server) registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	pg := g.Group("/payments", jwt, s.staffMiddleware())
	pg.GET("", s.queryPayments)
	pg.POST("", s.createPayment)
	pg.DELETE("/:id", s.destroyPayment)
}

// Handlers

func (s *server) queryPayments(ctx echo.Context) error {
	filter := new(PaymentFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []school.Payment{})
	}
	filter.StudentID = core.CleanString(filter.StudentID)

	reqCtx := ctx.Request().Context()
	payments := s.deps.Store.Payments(reqCtx)
	if !filter.AllSessions {
		payments = school.PaymentsInSession(payments, s.deps.Store.Profile(reqCtx).CurrentSession)
	}
	if filter.StudentID != "" {
		payments = school.PaymentsOf(payments, filter.StudentID)
	}
	payments = ledger.RecentPayments(payments, -1)
	if payments == nil {
		payments = []school.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (s *server) createPayment(ctx echo.Context) error {
	var data school.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	st, err := s.deps.Store.GetStudent(reqCtx, data.StudentID)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "studentId", Error: "student not found"})
	}
	fees := s.deps.Store.Fees(reqCtx)
	if _, ok := school.FindFee(fees, data.FeeStructureID); !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "feeStructureId", Error: "fee structure not found"})
	}

	profile := s.deps.Store.Profile(reqCtx)
	p := data.Payment(store.NewPaymentID(), profile.CurrentSession)
	if err = s.deps.Store.AddPayment(reqCtx, p); err != nil {
		return errors.Wrap(err, "creating payment")
	}

	if s.deps.MailSvc != nil {
		if msg := emailsvc.NewPaymentReceipt(profile, st, p, fees, s.ledgerOf(ctx, st)); msg != nil {
			s.deps.MailSvc.SendMessages(msg)
		}
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (s *server) destroyPayment(ctx echo.Context) error {
	if err := s.deps.Store.DeletePayment(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
