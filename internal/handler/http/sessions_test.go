package http

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/MKhiriev/go-user-auth/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sessionCookieOf(rr interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	router, auth := newMockedRouter(t)
	gomock.InOrder(
		auth.EXPECT().ValidLogin(gomock.Any(), "bob@me.com", "mySuperPwd").Return(true, nil),
		auth.EXPECT().CreateSession(gomock.Any(), "bob@me.com").Return("sid-1", nil),
	)

	rr := serve(router, formRequest(http.MethodPost, "/sessions",
		url.Values{"email": {"bob@me.com"}, "password": {"mySuperPwd"}}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"email":"bob@me.com","message":"logged in"}`, rr.Body.String())

	cookie := sessionCookieOf(rr)
	require.NotNil(t, cookie)
	assert.Equal(t, "sid-1", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
}

func TestLogin_EchoesNormalizedEmail(t *testing.T) {
	router, auth := newMockedRouter(t)
	gomock.InOrder(
		auth.EXPECT().ValidLogin(gomock.Any(), "Bob@Me.COM", "mySuperPwd").Return(true, nil),
		auth.EXPECT().CreateSession(gomock.Any(), "Bob@Me.COM").Return("sid-2", nil),
	)

	rr := serve(router, formRequest(http.MethodPost, "/sessions",
		url.Values{"email": {"Bob@Me.COM"}, "password": {"mySuperPwd"}}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"email":"bob@me.com","message":"logged in"}`, rr.Body.String())
}

func TestLogin_Unauthorized(t *testing.T) {
	tests := []struct {
		name  string
		form  url.Values
		setup func(auth *mockAuth)
	}{
		{
			name: "wrong password",
			form: url.Values{"email": {"bob@me.com"}, "password": {"nope"}},
			setup: func(auth *mockAuth) {
				auth.EXPECT().ValidLogin(gomock.Any(), "bob@me.com", "nope").Return(false, nil)
			},
		},
		{
			name: "session not created for vanished user",
			form: url.Values{"email": {"bob@me.com"}, "password": {"pwd"}},
			setup: func(auth *mockAuth) {
				auth.EXPECT().ValidLogin(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				auth.EXPECT().CreateSession(gomock.Any(), "bob@me.com").Return("", nil)
			},
		},
		{
			name: "missing password",
			form: url.Values{"email": {"bob@me.com"}},
		},
		{
			name: "empty form",
			form: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := newMockedRouter(t)
			if tt.setup != nil {
				tt.setup(auth)
			}

			rr := serve(router, formRequest(http.MethodPost, "/sessions", tt.form))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Empty(t, rr.Body.String())
			assert.Nil(t, sessionCookieOf(rr))
		})
	}
}

func TestLogin_ServiceError(t *testing.T) {
	router, auth := newMockedRouter(t)
	auth.EXPECT().ValidLogin(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

	rr := serve(router, formRequest(http.MethodPost, "/sessions",
		url.Values{"email": {"bob@me.com"}, "password": {"pwd"}}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")
}

func TestLogout(t *testing.T) {
	router, auth := newMockedRouter(t)
	user := models.User{UserID: 7, Email: "bob@me.com"}
	gomock.InOrder(
		auth.EXPECT().GetUserFromSessionID(gomock.Any(), "sid-1").Return(user, true, nil),
		auth.EXPECT().DestroySession(gomock.Any(), int64(7)).Return(nil),
	)

	req := withSessionCookie(formRequest(http.MethodDelete, "/sessions", nil), "sid-1")
	rr := serve(router, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	cookie := sessionCookieOf(rr)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestLogout_Forbidden(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		router, _ := newMockedRouter(t)

		rr := serve(router, formRequest(http.MethodDelete, "/sessions", nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		router, auth := newMockedRouter(t)
		auth.EXPECT().GetUserFromSessionID(gomock.Any(), "stale").Return(models.User{}, false, nil)

		rr := serve(router, withSessionCookie(formRequest(http.MethodDelete, "/sessions", nil), "stale"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestLogout_DestroyFails(t *testing.T) {
	router, auth := newMockedRouter(t)
	auth.EXPECT().GetUserFromSessionID(gomock.Any(), "sid-1").Return(models.User{UserID: 7}, true, nil)
	auth.EXPECT().DestroySession(gomock.Any(), int64(7)).Return(errors.New("db down"))

	rr := serve(router, withSessionCookie(formRequest(http.MethodDelete, "/sessions", nil), "sid-1"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Nil(t, sessionCookieOf(rr))
}
