package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/service"
)

type stubAuth struct {
	loggedOut *service.Session
}

func (s *stubAuth) Login(_ context.Context, username, password string) (*model.LoginResponse, error) {
	if username != "admin" || password != "Secr3t!pass" {
		return nil, apperror.Unauthorized{Reason: "invalid username or password"}
	}
	return &model.LoginResponse{Token: "signed"}, nil
}

func (s *stubAuth) GoogleLogin(_ context.Context, idToken string) (*model.LoginResponse, error) {
	return nil, apperror.Forbidden{Reason: "account is not allowed to sign in"}
}

func (s *stubAuth) Logout(session *service.Session) {
	s.loggedOut = session
}

func TestAuthHandler(t *testing.T) {
	auth := &stubAuth{}
	h := NewAuthHandler(auth, zap.NewNop())

	r := newEngine()
	r.GET("/me", h.Me)
	r.POST("/logout", h.Logout)

	public := newEngineWithoutAuth()
	public.POST("/login", h.Login)
	public.POST("/google", h.GoogleLogin)

	tests := []struct {
		desc    string
		target  string
		body    string
		status  int
		message string
	}{
		{"valid login", "/login", `{"username":"admin","password":"Secr3t!pass"}`, http.StatusOK, "Login Successful"},
		{"wrong password", "/login", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized, "invalid username or password"},
		{"google account not allowed", "/google", `{"id_token":"abc"}`, http.StatusForbidden, "account is not allowed to sign in"},
	}

	for i, tc := range tests {
		w, resp := do(t, public, http.MethodPost, tc.target, "", tc.body)

		assert.Equal(t, tc.status, w.Code, "TEST[%d], failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.message, resp.ApiMessage, "TEST[%d], failed.\n%s", i, tc.desc)
	}

	w, resp := do(t, r, http.MethodGet, "/me", "viewer", "")
	require.Equal(t, http.StatusOK, w.Code)
	user := resp.Data.(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "viewer", user["role"])

	w, _ = do(t, r, http.MethodPost, "/logout", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, auth.loggedOut)
	assert.Equal(t, "t1", auth.loggedOut.TokenID)
}
