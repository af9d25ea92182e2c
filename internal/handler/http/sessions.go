package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-auth/internal/app"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/service"
	"github.com/MKhiriev/go-user-auth/internal/utils"
	"github.com/MKhiriev/go-user-auth/models"
)

// sessionCookieName is the cookie that carries the session id.
const sessionCookieName = "session_id"

// login answers every credential failure with a bare 401 so that an unknown
// email and a wrong password look the same to the caller.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	form, err := parseCredentials(r)
	if err != nil || h.validator.Validate(ctx, form) != nil {
		log.Info().Msg("login with invalid form")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ok, err := h.services.AuthService.ValidLogin(ctx, form.Email, form.Password)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during login")
		utils.WriteMessage(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	sessionID, err := h.services.AuthService.CreateSession(ctx, form.Email)
	if err != nil {
		log.Err(err).Msg("creation of session failed")
		utils.WriteMessage(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if sessionID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteJSON(w, models.MessageResponse{Email: service.NormalizeEmail(form.Email), Message: app.MsgLoggedIn}, http.StatusOK)
}

// logout runs behind withSession, so the user is always present.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	user, _ := utils.GetUserFromContext(r.Context())
	if err := h.services.AuthService.DestroySession(r.Context(), user.UserID); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("session removal failed")
		utils.WriteMessage(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
