package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-auth/internal/app"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/utils"
	"github.com/MKhiriev/go-user-auth/models"
)

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	utils.WriteMessage(w, app.MsgWelcome, http.StatusOK)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	form, err := parseCredentials(r)
	if err != nil {
		log.Err(err).Msg("invalid form was passed")
		utils.WriteMessage(w, app.MsgInvalidForm, http.StatusBadRequest)
		return
	}
	if err = h.validator.Validate(ctx, form); err != nil {
		log.Err(err).Msg("form validation failed")
		utils.WriteMessage(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.RegisterUser(ctx, form.Email, form.Password)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Int("status", status).Msg("user registration failed")
		utils.WriteMessage(w, messageFor(err, status), status)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Email: user.Email, Message: app.MsgUserCreated}, http.StatusOK)
}
