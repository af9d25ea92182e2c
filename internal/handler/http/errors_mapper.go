package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-user-auth/internal/app"
	"github.com/MKhiriev/go-user-auth/internal/crypto"
	"github.com/MKhiriev/go-user-auth/internal/service"
	"github.com/MKhiriev/go-user-auth/internal/store"
	"github.com/MKhiriev/go-user-auth/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrUserAlreadyExists:   http.StatusBadRequest,
	service.ErrUserNotFound:        http.StatusForbidden,
	service.ErrInvalidResetToken:   http.StatusForbidden,
	service.ErrTokenCreationFailed: http.StatusInternalServerError,

	validators.ErrInvalidForm:     http.StatusBadRequest,
	validators.ErrUnsupportedType: http.StatusInternalServerError,

	crypto.ErrCorruptedHash: http.StatusInternalServerError,

	store.ErrInvalidCriteria:  http.StatusInternalServerError,
	store.ErrInvalidField:     http.StatusInternalServerError,
	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFor is the response text for err. Server-side failures get the
// generic status text so no internals leak.
func messageFor(err error, status int) string {
	switch {
	case status >= http.StatusInternalServerError, status == http.StatusForbidden:
		return http.StatusText(status)
	case errors.Is(err, service.ErrUserAlreadyExists):
		return app.MsgEmailAlreadyRegistered
	default:
		return err.Error()
	}
}
