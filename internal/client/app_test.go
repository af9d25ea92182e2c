package client

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-user-auth/internal/adapter"
	"github.com/MKhiriev/go-user-auth/internal/config"
	authhttp "github.com/MKhiriev/go-user-auth/internal/handler/http"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/mock"
	"github.com/MKhiriev/go-user-auth/internal/service"
	"github.com/MKhiriev/go-user-auth/internal/store"
	"github.com/MKhiriev/go-user-auth/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

// newMockedApp returns an App whose adapter is a gomock double.
func newMockedApp(t *testing.T, opts ...Option) (*App, *mock.MockServerAdapter, *bytes.Buffer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ad := mock.NewMockServerAdapter(ctrl)
	out := new(bytes.Buffer)

	opts = append([]Option{
		WithAdapterFactory(func(config.ClientAdapter, *logger.Logger) (adapter.ServerAdapter, error) {
			return ad, nil
		}),
		WithPasswordReader(func(string) (string, error) {
			t.Fatal("unexpected password prompt")
			return "", nil
		}),
		WithOutput(out, out),
	}, opts...)

	return NewApp(config.ClientAdapter{HTTPAddress: "http://localhost:5000"}, logger.Nop(), opts...), ad, out
}

func TestApp_Register(t *testing.T) {
	app, ad, out := newMockedApp(t)
	ad.EXPECT().SetSessionID("")
	ad.EXPECT().Register(gomock.Any(), "bob@me.com", "pwd").
		Return(models.MessageResponse{Email: "bob@me.com", Message: "user created"}, nil)

	err := app.Run(t.Context(), []string{"register", "-e", "bob@me.com", "-p", "pwd"})

	require.NoError(t, err)
	assert.Equal(t, "user created: bob@me.com\n", out.String())
}

func TestApp_RegisterPromptsForPassword(t *testing.T) {
	app, ad, _ := newMockedApp(t, WithPasswordReader(func(prompt string) (string, error) {
		assert.Equal(t, "Password: ", prompt)
		return "typed", nil
	}))
	ad.EXPECT().SetSessionID(gomock.Any())
	ad.EXPECT().Register(gomock.Any(), "bob@me.com", "typed").Return(models.MessageResponse{}, nil)

	require.NoError(t, app.Run(t.Context(), []string{"register", "--email", "bob@me.com"}))
}

func TestApp_RegisterEmptyPrompt(t *testing.T) {
	app, ad, _ := newMockedApp(t, WithPasswordReader(func(string) (string, error) { return "", nil }))
	ad.EXPECT().SetSessionID(gomock.Any())

	err := app.Run(t.Context(), []string{"register", "--email", "bob@me.com"})

	assert.ErrorIs(t, err, errEmptyPassword)
}

func TestApp_RegisterRejected(t *testing.T) {
	app, ad, _ := newMockedApp(t)
	ad.EXPECT().SetSessionID(gomock.Any())
	ad.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.MessageResponse{}, adapter.ErrBadRequest)

	err := app.Run(t.Context(), []string{"register", "-e", "bob@me.com", "-p", "pwd"})

	assert.ErrorIs(t, err, adapter.ErrBadRequest)
}

func TestApp_Login(t *testing.T) {
	app, ad, out := newMockedApp(t)
	ad.EXPECT().SetSessionID(gomock.Any())
	ad.EXPECT().Login(gomock.Any(), "bob@me.com", "pwd").
		Return(models.MessageResponse{Email: "bob@me.com", Message: "logged in"}, nil)
	ad.EXPECT().SessionID().Return("sid-1")

	err := app.Run(t.Context(), []string{"login", "-e", "bob@me.com", "-p", "pwd"})

	require.NoError(t, err)
	assert.Equal(t, "logged in: bob@me.com\nsession_id: sid-1\n", out.String())
}

func TestApp_SessionCommands(t *testing.T) {
	t.Run("profile", func(t *testing.T) {
		app, ad, out := newMockedApp(t)
		ad.EXPECT().SetSessionID("sid-1")
		ad.EXPECT().SessionID().Return("sid-1")
		ad.EXPECT().Profile(gomock.Any()).Return(models.ProfileResponse{Email: "bob@me.com"}, nil)

		require.NoError(t, app.Run(t.Context(), []string{"profile", "--session", "sid-1"}))
		assert.Equal(t, "email: bob@me.com\n", out.String())
	})

	t.Run("logout", func(t *testing.T) {
		app, ad, out := newMockedApp(t)
		ad.EXPECT().SetSessionID("sid-1")
		ad.EXPECT().SessionID().Return("sid-1")
		ad.EXPECT().Logout(gomock.Any()).Return(nil)

		require.NoError(t, app.Run(t.Context(), []string{"logout", "--session", "sid-1"}))
		assert.Equal(t, "logged out\n", out.String())
	})

	for _, name := range []string{"profile", "logout"} {
		t.Run(name+" without session", func(t *testing.T) {
			app, ad, _ := newMockedApp(t)
			ad.EXPECT().SetSessionID("")
			ad.EXPECT().SessionID().Return("")

			assert.ErrorIs(t, app.Run(t.Context(), []string{name}), errNoSession)
		})
	}

	t.Run("forbidden", func(t *testing.T) {
		app, ad, _ := newMockedApp(t)
		ad.EXPECT().SetSessionID("stale")
		ad.EXPECT().SessionID().Return("stale")
		ad.EXPECT().Profile(gomock.Any()).Return(models.ProfileResponse{}, adapter.ErrForbidden)

		assert.ErrorIs(t, app.Run(t.Context(), []string{"profile", "--session", "stale"}), adapter.ErrForbidden)
	})
}

func TestApp_PasswordReset(t *testing.T) {
	t.Run("reset token", func(t *testing.T) {
		app, ad, out := newMockedApp(t)
		ad.EXPECT().SetSessionID(gomock.Any())
		ad.EXPECT().ResetPasswordToken(gomock.Any(), "bob@me.com").
			Return(models.ResetTokenResponse{Email: "bob@me.com", ResetToken: "reset-1"}, nil)

		require.NoError(t, app.Run(t.Context(), []string{"reset-token", "-e", "bob@me.com"}))
		assert.Equal(t, "reset_token: reset-1\n", out.String())
	})

	t.Run("update password", func(t *testing.T) {
		app, ad, out := newMockedApp(t)
		ad.EXPECT().SetSessionID(gomock.Any())
		ad.EXPECT().UpdatePassword(gomock.Any(), "bob@me.com", "reset-1", "newPwd").
			Return(models.MessageResponse{Email: "bob@me.com", Message: "Password updated"}, nil)

		err := app.Run(t.Context(), []string{"update-password", "-e", "bob@me.com", "-t", "reset-1", "-n", "newPwd"})

		require.NoError(t, err)
		assert.Equal(t, "Password updated: bob@me.com\n", out.String())
	})

	t.Run("token flag required", func(t *testing.T) {
		app, ad, _ := newMockedApp(t)
		ad.EXPECT().SetSessionID(gomock.Any()).AnyTimes()

		err := app.Run(t.Context(), []string{"update-password", "-e", "bob@me.com", "-n", "newPwd"})

		assert.ErrorContains(t, err, `"token" not set`)
	})
}

func TestApp_AdapterFactoryError(t *testing.T) {
	app := NewApp(config.ClientAdapter{}, logger.Nop(),
		WithAdapterFactory(func(config.ClientAdapter, *logger.Logger) (adapter.ServerAdapter, error) {
			return nil, errors.New("bad address")
		}),
		WithOutput(new(bytes.Buffer), new(bytes.Buffer)),
	)

	err := app.Run(t.Context(), []string{"profile"})

	assert.ErrorContains(t, err, "bad address")
}

func TestApp_AddressFlagOverridesConfig(t *testing.T) {
	var got config.ClientAdapter
	app := NewApp(config.ClientAdapter{HTTPAddress: "http://localhost:5000"}, logger.Nop(),
		WithAdapterFactory(func(cfg config.ClientAdapter, _ *logger.Logger) (adapter.ServerAdapter, error) {
			got = cfg
			return nil, errors.New("stop")
		}),
		WithOutput(new(bytes.Buffer), new(bytes.Buffer)),
	)

	_ = app.Run(t.Context(), []string{"profile", "-a", "http://auth:8080", "--timeout", "3s"})

	assert.Equal(t, "http://auth:8080", got.HTTPAddress)
	assert.Equal(t, 3*time.Second, got.RequestTimeout)
}

func TestApp_E2E(t *testing.T) {
	storages, err := store.NewStorages(t.Context(), config.Storage{}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	services := service.NewServices(storages, config.App{BcryptCost: bcrypt.MinCost}, logger.Nop())
	srv := httptest.NewServer(authhttp.NewHandler(services, config.Server{}, logger.Nop()).Init())
	t.Cleanup(srv.Close)

	out := new(bytes.Buffer)
	app := NewApp(config.ClientAdapter{HTTPAddress: srv.URL}, logger.Nop(), WithOutput(out, out))

	require.NoError(t, app.Run(t.Context(), []string{"e2e"}), out.String())
	assert.Equal(t, 9, strings.Count(out.String(), "ok   "))

	out.Reset()
	err = app.Run(t.Context(), []string{"e2e"})
	assert.ErrorIs(t, err, adapter.ErrBadRequest, "the account exists now")
	assert.Contains(t, out.String(), "FAIL register user")
}

func TestTerminalPasswordReader_NonTerminal(t *testing.T) {
	prompts := new(bytes.Buffer)
	read := TerminalPasswordReader(strings.NewReader("first\r\nsecond"), prompts)

	first, err := read("Password: ")
	require.NoError(t, err)
	second, err := read("Again: ")
	require.NoError(t, err)
	_, err = read("More: ")

	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)
	assert.Error(t, err)
	assert.Equal(t, "Password: Again: More: ", prompts.String())
}
