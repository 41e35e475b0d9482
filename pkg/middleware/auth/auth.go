package auth

import (
	"crypto/sha256"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/scienceol/labmate/internal/config"
)

var (
	store     *sessions.CookieStore
	storeOnce sync.Once
	USERKEY   = "AUTH_USER_KEY"
)

const (
	sessionTokenKey = "token"
	AccessTokenKey  = "access_token"
)

// SessionStore 基于 cookie 的浏览器会话，密钥由 SESSION_SECRET 派生
func SessionStore() *sessions.CookieStore {
	storeOnce.Do(func() {
		conf := config.Global()
		key := sha256.Sum256([]byte(conf.Auth.SessionSecret))
		store = sessions.NewCookieStore(key[:])
		store.Options = &sessions.Options{
			Path:     "/",
			MaxAge:   conf.Auth.TokenExpireHours * 3600,
			HttpOnly: true,
			Secure:   conf.Server.Env == "prod",
			SameSite: http.SameSiteLaxMode,
		}
	})
	return store
}

func sessionName() string {
	return config.Global().Auth.SessionName
}

// SaveSession 登录成功后把 token 写入会话
func SaveSession(ctx *gin.Context, token string) error {
	session, err := SessionStore().Get(ctx.Request, sessionName())
	if err != nil && session == nil {
		return err
	}
	session.Values[sessionTokenKey] = token
	return session.Save(ctx.Request, ctx.Writer)
}

func ClearSession(ctx *gin.Context) error {
	session, err := SessionStore().Get(ctx.Request, sessionName())
	if err != nil && session == nil {
		return err
	}
	delete(session.Values, sessionTokenKey)
	session.Options.MaxAge = -1
	return session.Save(ctx.Request, ctx.Writer)
}

func sessionToken(ctx *gin.Context) string {
	session, err := SessionStore().Get(ctx.Request, sessionName())
	if err != nil || session == nil {
		return ""
	}
	token, _ := session.Values[sessionTokenKey].(string)
	return token
}
