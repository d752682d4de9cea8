package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/middleware"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

// respondError 将业务错误映射为 HTTP 响应
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		verr *service.ValidationError
		dup  *service.DuplicateError
	)
	switch {
	case errors.As(err, &verr):
		utils.ErrorWithData(c, http.StatusBadRequest, verr.Error(), gin.H{"field": verr.Field})
	case errors.As(err, &dup):
		var data interface{}
		if dup.ExistingID > 0 {
			data = gin.H{"existingId": dup.ExistingID}
		}
		utils.ErrorWithData(c, http.StatusBadRequest, dup.Error(), data)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.Forbidden(c, "")
	case errors.Is(err, service.ErrNoActiveProfile), errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUpstream):
		h.Log.Warn("upstream failure", "request_id", middleware.GetRequestID(c), "error", err)
		utils.Error(c, http.StatusBadGateway, service.ErrUpstream.Error())
	default:
		h.Log.Error("unexpected error", "request_id", middleware.GetRequestID(c), "path", c.Request.URL.Path, "error", err)
		message := "服务器内部错误"
		if !h.Config.IsProduction() {
			message = message + ": " + err.Error()
		}
		utils.InternalServerError(c, message)
	}
}

// saveSession 会话写入失败时返回 500，调用方随后不应再写响应
func (h *Handler) saveSession(c *gin.Context, save func() error) bool {
	if err := save(); err != nil {
		h.respondError(c, err)
		return false
	}
	return true
}
