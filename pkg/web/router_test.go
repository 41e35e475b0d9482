package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	r "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/internal/testutil"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/middleware/redis"
)

const pitotBody = `{"orifice_readings":[[100,150],[100,170]],"pitot_readings":[[100,140],[100,160]],"graph_params":["V0","Vp"]}`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.SetupDB(t)

	mr := miniredis.RunT(t)
	client := r.NewClient(&r.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() {
		redis.SetClient(nil)
		_ = client.Close()
	})

	g := gin.New()
	closeRouter := NewRouter(context.Background(), g)
	t.Cleanup(closeRouter)
	return g
}

func call(g *gin.Engine, method, path, body, token string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (code.ErrCode, string, json.RawMessage) {
	t.Helper()
	resp := struct {
		Code  code.ErrCode    `json:"code"`
		Error *common.Error   `json:"error"`
		Data  json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	msg := ""
	if resp.Error != nil {
		msg = resp.Error.Msg
	}
	return resp.Code, msg, resp.Data
}

func loginAs(t *testing.T, g *gin.Engine, name string, role common.Role) (string, *httptest.ResponseRecorder) {
	t.Helper()
	body, err := json.Marshal(map[string]any{"name": name, "role": role})
	require.NoError(t, err)
	w := call(g, http.MethodPost, "/api/auth/login", string(body), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, _, data := decode(t, w)
	out := struct {
		Token string `json:"token"`
	}{}
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token, w
}

func TestCalculatorAccessLevels(t *testing.T) {
	g := newTestRouter(t)
	student, _ := loginAs(t, g, "ada", common.UGStudent)
	industry, _ := loginAs(t, g, "grace", common.Industries)

	tests := []struct {
		name      string
		token     string
		path      string
		body      string
		status    int
		forbidden bool
	}{
		{"basic user runs pitot", student, "/api/v1/calc/pitot", pitotBody, http.StatusOK, false},
		{"basic user blocked from water", student, "/api/v1/calc/water", `{}`, http.StatusForbidden, true},
		{"basic user blocked from oilgas", student, "/api/v1/calc/oilgas", `{}`, http.StatusForbidden, true},
		{"industry user runs pitot", industry, "/api/v1/calc/pitot", pitotBody, http.StatusOK, false},
		{"no token", "", "/api/v1/calc/pitot", pitotBody, http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(g, http.MethodPost, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			c, _, _ := decode(t, w)
			assert.Equal(t, tt.forbidden, c == code.NoPermission)
		})
	}

	// 行业用户可以进入 water，空请求只会得到参数错误
	w := call(g, http.MethodPost, "/api/v1/calc/water", `{}`, industry)
	assert.NotEqual(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestLoginSetsSessionCookie(t *testing.T) {
	g := newTestRouter(t)
	_, w := loginAs(t, g, "ada", common.Researcher)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == config.Global().Auth.SessionName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	// 只带会话 cookie 即可访问受保护接口
	me := call(g, http.MethodGet, "/api/v1/user/me", "", "", session)
	assert.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Contains(t, me.Body.String(), `"name":"ada"`)
}

func TestExperimentNotFound(t *testing.T) {
	g := newTestRouter(t)
	token, _ := loginAs(t, g, "ada", common.Researcher)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		msg    string
	}{
		{"get unknown", http.MethodGet, "/api/v1/experiment/6ba7b810-9dad-11d1-80b4-00c04fd430c8", http.StatusNotFound, "Experiment not found"},
		{"delete unknown", http.MethodDelete, "/api/v1/experiment/6ba7b810-9dad-11d1-80b4-00c04fd430c8", http.StatusNotFound, "Experiment not found"},
		{"malformed id", http.MethodGet, "/api/v1/experiment/not-a-uuid", http.StatusBadRequest, "invalid experiment id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(g, tt.method, tt.path, "", token)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			_, msg, _ := decode(t, w)
			assert.Equal(t, tt.msg, msg)
		})
	}
}
