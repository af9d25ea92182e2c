package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-user-auth/internal/config"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/utils"
	"github.com/MKhiriev/go-user-auth/models"
	"github.com/go-resty/resty/v2"
)

// sessionCookieName is the cookie the server keeps the session id in.
const sessionCookieName = "session_id"

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu        sync.RWMutex
	sessionID string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the resty implementation of [ServerAdapter].
// It normalises and validates the base URL from cfg.HTTPAddress and sets the
// request timeout.
//
// Redirects are not followed, so Logout observes the server's 302.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(cfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(logger)
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetSessionID(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessionID = strings.TrimSpace(sessionID)
}

func (h *httpServerAdapter) SessionID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessionID
}

// Register posts the credentials to POST /users.
func (h *httpServerAdapter) Register(ctx context.Context, email, password string) (models.MessageResponse, error) {
	var result models.MessageResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		Post("/users")
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.MessageResponse{}, err
	}

	return result, nil
}

// Login posts the credentials to POST /sessions and keeps the session id
// from the response cookie.
func (h *httpServerAdapter) Login(ctx context.Context, email, password string) (models.MessageResponse, error) {
	var result models.MessageResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		Post("/sessions")
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.MessageResponse{}, err
	}

	sessionID := ""
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			sessionID = c.Value
		}
	}
	if sessionID == "" {
		return models.MessageResponse{}, ErrNoSessionCookie
	}

	h.SetSessionID(sessionID)
	return result, nil
}

// Profile calls GET /profile with the stored session.
func (h *httpServerAdapter) Profile(ctx context.Context) (models.ProfileResponse, error) {
	var result models.ProfileResponse

	resp, err := h.sessionRequest(ctx).
		SetResult(&result).
		Get("/profile")
	if err != nil {
		return models.ProfileResponse{}, fmt.Errorf("profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ProfileResponse{}, err
	}

	return result, nil
}

// Logout calls DELETE /sessions. The server answers a successful logout with
// a redirect to "/".
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	resp, err := h.sessionRequest(ctx).Delete("/sessions")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	if resp.StatusCode() != http.StatusFound {
		if err = mapHTTPError(resp); err != nil {
			return err
		}
	}

	h.SetSessionID("")
	return nil
}

// ResetPasswordToken posts the email to POST /reset_password.
func (h *httpServerAdapter) ResetPasswordToken(ctx context.Context, email string) (models.ResetTokenResponse, error) {
	var result models.ResetTokenResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"email": email}).
		SetResult(&result).
		Post("/reset_password")
	if err != nil {
		return models.ResetTokenResponse{}, fmt.Errorf("reset token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ResetTokenResponse{}, err
	}

	return result, nil
}

// UpdatePassword puts the token and the new password to PUT /reset_password.
func (h *httpServerAdapter) UpdatePassword(ctx context.Context, email, resetToken, newPassword string) (models.MessageResponse, error) {
	var result models.MessageResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"email":        email,
			"reset_token":  resetToken,
			"new_password": newPassword,
		}).
		SetResult(&result).
		Put("/reset_password")
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("update password request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.MessageResponse{}, err
	}

	return result, nil
}

func (h *httpServerAdapter) sessionRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if sessionID := h.SessionID(); sessionID != "" {
		req.SetCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	}
	return req
}
