package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	emailsvc "github.com/trezcool/feedesk/services/email"
)

var (
	errUserExists       = "a user with this id, username or email already exists"
	errInvalidResetLink = "invalid or expired reset token"
)

func (s *server) registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", s.login)
	ag.POST("/password-reset", s.passwordReset)
	ag.POST("/password-reset-confirm", s.passwordResetConfirm)

	// authed endpoints
	ag.POST("/token-refresh", s.refreshTokenHandler, jwt)
}

func (s *server) registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	ug := g.Group("/users", jwt, s.adminMiddleware())
	ug.GET("", s.queryUsers)
	ug.POST("", s.createUser)
	ug.GET("/roles", s.queryRoles)
	ug.DELETE("/:id", s.destroyUser)
}

// Handlers

func (s *server) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	usr, claims, err := s.authenticate(ctx, data.Login, data.Password)
	if err != nil {
		return err
	}
	token, err := s.generateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	pub := usr.Public()
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: &pub})
}

// passwordReset mails a reset token to the active account owning the email.
// The response does not tell whether such an account exists.
func (s *server) passwordReset(ctx echo.Context) error {
	var data school.PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if usr, err := s.deps.Store.FindAccount(reqCtx, data.Email); err == nil && usr.IsActive && s.deps.MailSvc != nil {
		token := school.MakeResetToken(usr, s.deps.Conf.SecretKey)
		if msg := emailsvc.NewPasswordReset(s.deps.Store.Profile(reqCtx), usr, token); msg != nil {
			s.deps.MailSvc.SendMessages(msg)
		}
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password reset e-mail has been sent."})
}

func (s *server) passwordResetConfirm(ctx echo.Context) error {
	var data school.ResetPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPassword")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	invalid := core.NewValidationError(errors.New(errInvalidResetLink))
	id, err := school.DecodeUID(data.UID)
	if err != nil {
		return invalid
	}
	usr, err := s.deps.Store.GetUser(reqCtx, id)
	if err != nil || !usr.IsActive {
		return invalid
	}
	if err = school.VerifyResetToken(usr, data.Token, s.deps.Conf.SecretKey, s.deps.Conf.Server.PasswordResetTimeoutDelta); err != nil {
		return invalid
	}

	if err = s.deps.Store.SetPassword(reqCtx, usr.ID, data.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (s *server) refreshTokenHandler(ctx echo.Context) error {
	token, err := s.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (s *server) queryUsers(ctx echo.Context) error {
	users := s.deps.Store.Users(ctx.Request().Context())
	res := make([]school.User, 0, len(users))
	for _, usr := range users {
		res = append(res, usr.Public())
	}
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) createUser(ctx echo.Context) error {
	var data school.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(s.deps.Validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	for _, usr := range s.deps.Store.AllUsers(reqCtx) {
		if usr.ID == data.ID ||
			(data.Username != "" && usr.Username == data.Username) ||
			(data.Email != "" && usr.Email == data.Email) {
			return core.NewValidationError(errors.New(errUserExists))
		}
	}
	if data.Role == school.RoleParent {
		if _, err := s.deps.Store.GetStudent(reqCtx, data.StudentID); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "studentId", Error: "student not found"})
		}
	}

	usr, err := data.User()
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err = s.deps.Store.AddUser(reqCtx, usr); err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr.Public())
}

func (s *server) destroyUser(ctx echo.Context) error {
	ctxUsr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// ctxUser cannot delete themselves
	if ctx.Param("id") == ctxUsr.ID {
		return errHttpForbidden
	}

	if err = s.deps.Store.DeleteUser(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, school.Roles)
}

type (
	LoginRequest struct {
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  *school.User `json:"user,omitempty"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Login = core.CleanString(lr.Login)
	return validate.Struct(lr)
}
