package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/utils"
)

const (
	sessionUserKey    = "userinfo"
	sessionProfileKey = "active_profile_id"
	ctxUserKey        = "current_user"
	ctxSessionKey     = "session_context"
)

// Claims JWT 声明
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// UserLoader 按 ID 加载用户，不存在时返回 nil, nil
type UserLoader interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

// RequireAuth 必须登录中间件：优先读 Session，其次 Bearer Token，每次请求都重新加载用户
func RequireAuth(users UserLoader, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := 0
		if su, ok := session.Get(sessionUserKey).(model.SessionUser); ok {
			userID = su.ID
		} else if claims, err := extractClaims(c, jwtSecret); err == nil {
			userID = claims.UserID
		}
		if userID == 0 {
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			utils.InternalServerError(c, "")
			c.Abort()
			return
		}
		if user == nil {
			// 用户已被删除，清理残留会话
			session.Clear()
			_ = session.Save()
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}

		sc := &model.SessionContext{UserID: user.ID}
		if id, ok := session.Get(sessionProfileKey).(int); ok {
			sc.ActiveProfileID = id
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxSessionKey, sc)
		c.Next()
	}
}

// RequireAdmin 管理员权限中间件，需在 RequireAuth 之后使用
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			utils.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 从上下文获取当前用户
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) int {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// GetSessionContext 获取本次请求的会话上下文
func GetSessionContext(c *gin.Context) *model.SessionContext {
	if v, ok := c.Get(ctxSessionKey); ok {
		if sc, ok := v.(*model.SessionContext); ok {
			return sc
		}
	}
	return &model.SessionContext{}
}

// Login 写入登录会话并立即保存
func Login(c *gin.Context, user *model.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, model.SessionUser{ID: user.ID, Username: user.Username})
	return session.Save()
}

// Logout 清空会话并立即保存
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// SaveSessionContext 将当前档案写回会话；必须在返回成功响应之前调用
func SaveSessionContext(c *gin.Context, sc *model.SessionContext) error {
	session := sessions.Default(c)
	if sc.HasActiveProfile() {
		session.Set(sessionProfileKey, sc.ActiveProfileID)
	} else {
		session.Delete(sessionProfileKey)
	}
	return session.Save()
}

// extractClaims 从 Authorization Header 或 token Cookie 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	var tokenString string
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie("token"); err == nil {
		tokenString = cookie
	}
	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GenerateToken 生成 JWT Token
func GenerateToken(userID int, jwtSecret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
