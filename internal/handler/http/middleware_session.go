package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/utils"
)

// withSession resolves the "session_id" cookie to a user and stores it in the
// request context under [utils.UserCtxKey].
//
// The middleware rejects the request with 403 Forbidden when:
//   - the cookie is absent or empty ([ErrNoSessionCookie]);
//   - no user holds the session ([ErrUnknownSession]).
//
// A store failure is a 500.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			log.Info().Err(ErrNoSessionCookie).Send()
			utils.WriteMessage(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		ctx := r.Context()
		user, ok, err := h.services.AuthService.GetUserFromSessionID(ctx, cookie.Value)
		if err != nil {
			log.Err(err).Msg("session lookup failed")
			utils.WriteMessage(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !ok {
			log.Info().Err(ErrUnknownSession).Send()
			utils.WriteMessage(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(ctx, user)))
	})
}
