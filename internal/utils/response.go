package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HashIP 日志中只记录 IP 的哈希前缀
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

// Response 统一API响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

func write(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Data:    data,
		Success: status < http.StatusBadRequest,
	})
}

// Success 200
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "success", data)
}

// Created 201，回显新建的资源
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "created", data)
}

// NoContent 204，无响应体
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	write(c, status, message, nil)
}

// ErrorWithData 错误响应，data 中携带出错字段等附加信息
func ErrorWithData(c *gin.Context, status int, message string, data interface{}) {
	write(c, status, message, data)
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, orDefault(message, "请求参数错误"), nil)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	write(c, http.StatusUnauthorized, orDefault(message, "未登录"), nil)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	write(c, http.StatusForbidden, orDefault(message, "无权访问"), nil)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, orDefault(message, "资源不存在"), nil)
}

// InternalServerError 500
func InternalServerError(c *gin.Context, message string) {
	write(c, http.StatusInternalServerError, orDefault(message, "服务器内部错误"), nil)
}
