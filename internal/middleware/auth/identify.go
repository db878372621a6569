package auth

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/tokens"
)

// ContextKey is where the verified claims live in the echo context.
const ContextKey = "account"

type Decoder interface {
	Decode(raw string) (*tokens.Claims, error)
}

type ctxKey struct{}

// Identify runs on every request. A valid session cookie attaches its claims
// to the echo context and the request context; a missing or bad one leaves
// the request anonymous. It never rejects.
func Identify(dec Decoder, cookieName string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "cookie:" + cookieName,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return dec.Decode(raw)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(ContextKey).(*tokens.Claims)
			if !ok {
				return
			}
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("account_id", claims.AccountID)
			ctx = logging.IntoContext(WithClaims(ctx, claims), l)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTInvalid) {
				logging.FromContext(c.Request().Context()).Debug("session_token_rejected", "error", err)
			}
			c.Set(ContextKey, nil)
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// Identity returns the verified claims for the request, or nil when anonymous.
func Identity(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(ContextKey).(*tokens.Claims)
	return claims
}

func WithClaims(ctx context.Context, claims *tokens.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func FromContext(ctx context.Context) *tokens.Claims {
	claims, _ := ctx.Value(ctxKey{}).(*tokens.Claims)
	return claims
}
