package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/maumlog/maum/backend/internal/service/account"
	"github.com/maumlog/maum/backend/internal/service/auth"
	"github.com/maumlog/maum/backend/pkg/utils"
)

type contextKey string

const accountKey contextKey = "account"

// RequireAccount resolves the bearer token to a live account and stores it
// in the request context. Requests without a valid token get 401.
func RequireAccount(authSvc *auth.Service, accounts *account.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				utils.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			username, ok := authSvc.Verify(token)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			acct, ok := accounts.Lookup(username)
			if !ok {
				// Token outlived the account, e.g. after a server restart.
				var err error
				acct, err = accounts.Attach(r.Context(), username)
				if err != nil {
					utils.RespondError(w, http.StatusInternalServerError, "failed to load account")
					return
				}
			}

			ctx := context.WithValue(r.Context(), accountKey, acct)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFrom returns the account placed in the context by RequireAccount.
func AccountFrom(ctx context.Context) (*account.Account, bool) {
	acct, ok := ctx.Value(accountKey).(*account.Account)
	return acct, ok
}

func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get("X-Auth-Token")); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
