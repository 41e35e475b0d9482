package login

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/common/code"
	ls "github.com/scienceol/labmate/pkg/core/login"
	"github.com/scienceol/labmate/pkg/middleware/auth"
)

type stubService struct {
	ls.Service
}

func (stubService) Login(_ context.Context, req *ls.LoginReq) (*ls.Resp, error) {
	if req.Name == "mallory" {
		return nil, code.ParamErr.WithMsg("Name is required")
	}
	return &ls.Resp{
		Token:     "signed-token",
		TokenType: "bearer",
		User:      &auth.UserInfo{Name: req.Name, Role: req.Role},
	}, nil
}

func (stubService) Logout(context.Context) (*ls.LogoutResp, error) {
	return &ls.LogoutResp{Message: "Logged out successfully"}, nil
}

func doJSON(e *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == config.Global().Auth.SessionName {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewLoginWith(stubService{})
	e := gin.New()
	e.POST("/login", l.Login)
	e.POST("/logout", l.Logout)

	tests := []struct {
		name       string
		body       string
		status     int
		contains   string
		withCookie bool
	}{
		{"ok", `{"name":"ada","role":"Undergraduate Student"}`, http.StatusOK, `"token":"signed-token"`, true},
		{"missing role", `{"name":"ada"}`, http.StatusBadRequest, "Name and role are required", false},
		{"rejected", `{"name":"mallory","role":"Researcher"}`, http.StatusBadRequest, "Name is required", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(e, http.MethodPost, "/login", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.contains)
			c := sessionCookie(w)
			if !tt.withCookie {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.True(t, c.HttpOnly)
			assert.NotEmpty(t, c.Value)
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewLoginWith(stubService{})
	e := gin.New()
	e.POST("/login", l.Login)
	e.POST("/logout", l.Logout)

	c := sessionCookie(doJSON(e, http.MethodPost, "/login", `{"name":"ada","role":"Researcher"}`))
	require.NotNil(t, c)

	w := doJSON(e, http.MethodPost, "/logout", "", c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}
