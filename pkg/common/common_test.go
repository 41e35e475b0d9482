package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestReply(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		data   any
		status int
		code   code.ErrCode
		msg    string
	}{
		{name: "ok", data: map[string]int{"n": 1}, status: http.StatusOK, code: code.Success},
		{name: "not found", err: code.RecordNotFound, status: http.StatusNotFound, code: code.RecordNotFound, msg: "record not found"},
		{name: "param", err: code.ParamErr.WithMsg("bad"), status: http.StatusBadRequest, code: code.ParamErr, msg: "bad"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: code.UnDefineErr, msg: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Reply(ctx, tt.err, tt.data)

			assert.Equal(t, tt.status, w.Code)
			resp := map[string]any{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.EqualValues(t, tt.code, resp["code"])
			if tt.err != nil {
				assert.Equal(t, tt.msg, resp["error"].(map[string]any)["msg"])
			} else {
				assert.NotNil(t, resp["data"])
			}
		})
	}
}

func TestPageReq(t *testing.T) {
	p := &PageReq{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offest())

	p = &PageReq{Page: 3, PageSize: 50}
	p.Normalize()
	assert.Equal(t, 100, p.Offest())
}

func TestNewPageMoreResp(t *testing.T) {
	resp := NewPageMoreResp([]int{1, 2}, 101, 2, 50)
	assert.Equal(t, 3, resp.Pages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	last := NewPageMoreResp([]int{}, 0, 1, 50)
	assert.Equal(t, 0, last.Pages)
	assert.False(t, last.HasNext)
	assert.False(t, last.HasPrev)
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		role     Role
		userType UserType
		level    AccessLevel
	}{
		{Researcher, UserResearcher, 3},
		{UGStudent, UserStudent, 1},
		{Industries, UserIndustry, 2},
		{LabManager, UserLabManager, 4},
		{Role("Visitor"), UserResearcher, 3},
	}
	for _, tt := range tests {
		info := ResolveRole(tt.role)
		assert.Equal(t, tt.userType, info.UserType, tt.role)
		assert.Equal(t, tt.level, info.AccessLevel, tt.role)
	}
	assert.Len(t, Roles(), 4)
}
