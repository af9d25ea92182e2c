package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-user-auth/models"
)

func parseCredentials(r *http.Request) (models.Credentials, error) {
	if err := parseForm(r); err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}, nil
}

func parseResetTokenRequest(r *http.Request) (models.ResetTokenRequest, error) {
	if err := parseForm(r); err != nil {
		return models.ResetTokenRequest{}, err
	}
	return models.ResetTokenRequest{Email: r.PostFormValue("email")}, nil
}

func parseUpdatePasswordRequest(r *http.Request) (models.UpdatePasswordRequest, error) {
	if err := parseForm(r); err != nil {
		return models.UpdatePasswordRequest{}, err
	}
	return models.UpdatePasswordRequest{
		Email:       r.PostFormValue("email"),
		ResetToken:  r.PostFormValue("reset_token"),
		NewPassword: r.PostFormValue("new_password"),
	}, nil
}

const maxFormMemory = 1 << 20

// parseForm accepts both url-encoded and multipart bodies.
func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}
