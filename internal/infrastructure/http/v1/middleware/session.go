package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"voltbill/internal/core/apperror"
	appctx "voltbill/internal/core/context"
)

// SessionValidator checks that the session an access token references is
// still the account's current one.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) error
}

// SessionGuard rejects requests whose token belongs to a superseded session.
// Each account holds one active session; logging in on a second device
// revokes the first device's session, and this middleware is what makes the
// first device notice.
//
// Must run AFTER Auth middleware (needs the user context) and AFTER TenantDB
// (needs the tenant pool for the session lookup).
func SessionGuard(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		// Tokens issued before the session registry existed carry no session;
		// treat them as expired rather than letting them bypass the guard.
		if user.SessionID == "" {
			_ = c.Error(apperror.NewUnauthorized("token has no session"))
			c.Abort()
			return
		}

		if err := validator.ValidateSession(c.Request.Context(), user.SessionID); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Next()
	}
}
