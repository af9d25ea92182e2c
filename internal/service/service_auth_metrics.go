package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-user-auth/internal/metrics"
	"github.com/MKhiriev/go-user-auth/models"
)

// AuthServiceWrapper decorates an AuthService with extra behaviour such as
// metrics.
type AuthServiceWrapper interface {
	Wrap(AuthService) AuthService
}

// AuthMetricsService counts every AuthService call by operation and result.
type AuthMetricsService struct {
	inner AuthService
}

func NewAuthMetricsService() AuthServiceWrapper {
	return &AuthMetricsService{}
}

func (m *AuthMetricsService) Wrap(inner AuthService) AuthService {
	m.inner = inner
	return m
}

func (m *AuthMetricsService) RegisterUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := m.inner.RegisterUser(ctx, email, password)
	metrics.RecordOperation("register", resultOf(err, ErrUserAlreadyExists, ErrInvalidDataProvided))
	return user, err
}

func (m *AuthMetricsService) ValidLogin(ctx context.Context, email, password string) (bool, error) {
	ok, err := m.inner.ValidLogin(ctx, email, password)
	metrics.RecordOperation("valid_login", resultOfBool(ok, err))
	return ok, err
}

func (m *AuthMetricsService) CreateSession(ctx context.Context, email string) (string, error) {
	sessionID, err := m.inner.CreateSession(ctx, email)
	metrics.RecordOperation("create_session", resultOfBool(sessionID != "", err))
	return sessionID, err
}

func (m *AuthMetricsService) GetUserFromSessionID(ctx context.Context, sessionID string) (models.User, bool, error) {
	user, ok, err := m.inner.GetUserFromSessionID(ctx, sessionID)
	metrics.RecordOperation("session_lookup", resultOfBool(ok, err))
	return user, ok, err
}

func (m *AuthMetricsService) DestroySession(ctx context.Context, userID int64) error {
	err := m.inner.DestroySession(ctx, userID)
	metrics.RecordOperation("destroy_session", resultOf(err))
	return err
}

func (m *AuthMetricsService) GetResetPasswordToken(ctx context.Context, email string) (string, error) {
	token, err := m.inner.GetResetPasswordToken(ctx, email)
	metrics.RecordOperation("reset_token", resultOf(err, ErrUserNotFound))
	return token, err
}

func (m *AuthMetricsService) UpdatePassword(ctx context.Context, email, resetToken, newPassword string) error {
	err := m.inner.UpdatePassword(ctx, email, resetToken, newPassword)
	metrics.RecordOperation("update_password", resultOf(err, ErrInvalidResetToken, ErrInvalidDataProvided))
	return err
}

// resultOf maps err to a result label; the listed errors are expected
// rejections rather than faults.
func resultOf(err error, failures ...error) string {
	if err == nil {
		return metrics.ResultSuccess
	}
	for _, f := range failures {
		if errors.Is(err, f) {
			return metrics.ResultFailure
		}
	}
	return metrics.ResultError
}

func resultOfBool(ok bool, err error) string {
	switch {
	case err != nil:
		return metrics.ResultError
	case !ok:
		return metrics.ResultFailure
	default:
		return metrics.ResultSuccess
	}
}
