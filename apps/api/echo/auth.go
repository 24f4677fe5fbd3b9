package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/parent"
)

var (
	tokenContextKey   = "parentToken"
	contextParentKey  = "parent"
	tokenAudience     = "Parents"
	tokenSigningAlgo  = middleware.AlgorithmHS256
	errInvalidSubject = errors.New("invalid token subject")
)

// Claims represents the authorization claims transmitted via a JWT.
// The Subject is the ID of the authenticated Parent.
type Claims struct {
	jwt.StandardClaims
	IsStaff bool `json:"is_staff,omitempty"` // may record attendance
}

func (c Claims) ParentID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidSubject
	}
	return id, nil
}

func NewClaims(conf *core.Config, parentID int64, isStaff bool) *Claims {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		IsStaff: isStaff,
	}
	if parentID > 0 {
		claims.Subject = strconv.FormatInt(parentID, 10)
	}
	return claims
}

func jwtConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: tokenSigningAlgo,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(tokenSigningAlgo)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextParent resolves the authenticated Parent, caching it in the context.
func getContextParent(ctx echo.Context, svc *parent.Service) (parent.Parent, error) {
	if p, ok := ctx.Get(contextParentKey).(parent.Parent); ok {
		return p, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return parent.Parent{}, errors.Wrap(err, "getting context claims")
	}
	id, err := claims.ParentID()
	if err != nil {
		return parent.Parent{}, parent.ErrNotFound
	}

	p, err := svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return parent.Parent{}, errors.Wrap(err, "finding parent by ID")
	}
	ctx.Set(contextParentKey, p)
	return p, nil
}
