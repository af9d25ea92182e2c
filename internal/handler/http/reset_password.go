package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-auth/internal/app"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/utils"
	"github.com/MKhiriev/go-user-auth/models"
)

// resetPasswordToken issues a reset token. Any rejection, including an
// unknown email, is a 403.
func (h *Handler) resetPasswordToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	form, err := parseResetTokenRequest(r)
	if err != nil || h.validator.Validate(ctx, form) != nil {
		log.Info().Msg("reset token request with invalid form")
		utils.WriteMessage(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	token, err := h.services.AuthService.GetResetPasswordToken(ctx, form.Email)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Int("status", status).Msg("reset token was not issued")
		utils.WriteMessage(w, messageFor(err, status), status)
		return
	}

	utils.WriteJSON(w, models.ResetTokenResponse{Email: form.Email, ResetToken: token}, http.StatusOK)
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	form, err := parseUpdatePasswordRequest(r)
	if err != nil || h.validator.Validate(ctx, form) != nil {
		log.Info().Msg("password update with invalid form")
		utils.WriteMessage(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	err = h.services.AuthService.UpdatePassword(ctx, form.Email, form.ResetToken, form.NewPassword)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Int("status", status).Msg("password was not updated")
		utils.WriteMessage(w, messageFor(err, status), status)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Email: form.Email, Message: app.MsgPasswordUpdated}, http.StatusOK)
}
