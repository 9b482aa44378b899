// Copyright (c) 2026 Vidora. All rights reserved.

package auth

import (
	"context"
	"net/http"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxkey"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/sec"
)

// AccessVerifier is the single [sec.TokenService] method the guard needs.
type AccessVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AccessClaims, error)
}

/*
Authenticate resolves the caller's identity from the access token.

Description: The token is read from the "accessToken" cookie first, falling
back to an Authorization: Bearer header. A request without a token passes
through anonymously (RequireAuth rejects it later if the route is
protected). A request with a token must present a valid one AND name an
account that still exists; the full record is attached to the context so
handlers never re-fetch the caller.
*/
func Authenticate(verifier AccessVerifier, users UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := requestutil.CookieValue(request, constants.AccessTokenCookieName)
			if token == "" {
				token = requestutil.BearerToken(request)
			}

			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid Access Token"))
				return
			}

			// Resolve the full record so tokens of deleted accounts die here.
			user, err := users.FindByID(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid Access Token"))
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, user)
			ctx = ctxutil.WithUserID(ctx, user.ID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not authenticate. It must be
// mounted after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if UserFromContext(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// UserFromContext returns the authenticated account attached by
// [Authenticate], or nil for anonymous requests.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(ctxkey.KeyUser).(*User)
	return user
}
