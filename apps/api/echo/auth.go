package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/store"
)

var contextUserKey = "user"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role"`
	StudentID    string `json:"student_id,omitempty"` // own record (STUDENT) or ward (PARENT)
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
}

func (s *server) getUserClaims(usr school.User, origIat ...int64) *Claims {
	now := core.NowFunc()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.deps.Conf.AppName,
			Subject:   usr.ID,
			Audience:  "Feedesk",
			ExpiresAt: now.Add(s.deps.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         usr.Role,
		StudentID:    usr.StudentID,
	}
}

// generateToken generates a signed JWT token string representing the user Claims.
func (s *server) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(s.jwtConf.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(s.jwtConf.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// GenerateToken returns a token for usr, as issued by the login endpoint.
func (s *server) GenerateToken(usr school.User) (string, error) {
	return s.generateToken(s.getUserClaims(usr))
}

func (s *server) authenticate(ctx echo.Context, login, pwd string) (school.User, *Claims, error) {
	usr, err := s.deps.Store.Authenticate(ctx.Request().Context(), login, pwd)
	if err != nil {
		if err == store.ErrAuthFailed {
			return school.User{}, nil, errAuthenticationFailed
		}
		return school.User{}, nil, errors.Wrap(err, "authenticating")
	}
	return usr, s.getUserClaims(usr), nil
}

func (s *server) getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(s.jwtConf.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func (s *server) getContextUser(ctx echo.Context, clms ...Claims) (school.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(school.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = s.getContextClaims(ctx)
		if err != nil {
			return school.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := s.deps.Store.GetUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if err == school.ErrNotFound {
			return school.User{}, errUnauthorized
		}
		return school.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

func (s *server) refreshToken(ctx echo.Context) (string, error) {
	claims, err := s.getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	usr, err := s.getContextUser(ctx, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}

	// check if user is still active
	if !usr.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(s.deps.Conf.Server.JWTRefreshExpirationDelta)
	if core.NowFunc().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := s.generateToken(s.getUserClaims(usr, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}
