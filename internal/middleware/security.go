package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/logger"
	"github.com/user/cinelist/internal/utils"
)

// Security 基础安全响应头
func Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// CORS 跨域配置，前端需要携带会话 Cookie
func CORS(origins []string) gin.HandlerFunc {
	// cors.New 在没有任何来源时会 panic
	if len(origins) == 0 {
		origins = config.DefaultCORSOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Recovery 捕获 panic 并返回统一错误结构
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", "request_id", GetRequestID(c), "path", c.Request.URL.Path, "panic", recovered)
		utils.InternalServerError(c, "")
		c.Abort()
	})
}
