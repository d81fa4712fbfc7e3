package http

import (
	"net/http"
	"strings"

	"tracking/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Role names carried in the JWT "role" claim. Admin covers the dispatch
// dashboard, partners carry orders, customers watch them.
type Role string

const (
	RoleAdmin    Role = "admin"
	RolePartner  Role = "partner"
	RoleCustomer Role = "customer"
)

const claimsContextKey = "tracking.claims"

// Claims is the token payload the service verifies. Subject holds the
// caller's identity (partner or customer UUID); token issuance lives in the
// auth service, this side only verifies.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies bearer tokens and gates routes by role.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for HS256 tokens signed with the
// given secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}

	return &Authenticator{secret: []byte(secret)}, nil
}

// Parse verifies the token signature and expiry and returns its claims.
func (a *Authenticator) Parse(token string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// Require builds middleware that rejects requests without a valid token
// carrying one of the given roles. The token comes from the Authorization
// header, or from the "token" query parameter for websocket clients that
// cannot set headers.
func (a *Authenticator) Require(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Missing credentials",
				})
			}

			claims, err := a.Parse(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Invalid token",
				})
			}

			if !roleAllowed(claims.Role, roles) {
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Code:    http.StatusForbidden,
					Message: "Insufficient role",
				})
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims stored by Require.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}

	return c.QueryParam("token")
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
