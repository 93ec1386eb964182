package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/sprintboard/sprintboard/internal/app"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/utils"
	"github.com/sprintboard/sprintboard/models"
)

type ctxKey int

const claimsCtxKey ctxKey = iota

// auth rejects requests without a valid bearer identity token with HTTP 401
// Unauthorized. The verified claims are stored in the request context and
// read back with [claimsFromContext].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := utils.VerifyIdentityToken(tokenString, h.tokenKey)
		if err != nil {
			log.Err(err).Msg("error occurred during verifying token")
			http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) (models.IdentityClaims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(models.IdentityClaims)
	return claims, ok
}

// getTokenFromAuthHeader extracts the token from an "Authorization: Bearer
// <token>" header value. The scheme is matched case-insensitively.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}
