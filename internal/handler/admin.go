package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/middleware"
	"github.com/user/cinelist/internal/utils"
)

// AdminLogs 审计日志，最新在前
func (h *Handler) AdminLogs(c *gin.Context) {
	p := utils.ParsePagination(c, 20)
	logs, total, err := h.Services.Audit.Query(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"logs":  logs,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

// AdminUsers 用户列表
func (h *Handler) AdminUsers(c *gin.Context) {
	p := utils.ParsePagination(c, 20)
	users, total, err := h.Services.User.List(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"users": users,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

type setAdminRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

// AdminSetUserRole 授予或撤销管理员
func (h *Handler) AdminSetUserRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req setAdminRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.IsAdmin == nil {
		utils.BadRequest(c, "isAdmin 不能为空")
		return
	}
	user, err := h.Services.User.SetAdmin(c.Request.Context(), middleware.GetUserID(c), id, *req.IsAdmin)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, user)
}

type adminContentRequest struct {
	TMDBID    utils.FlexInt `json:"tmdbId"`
	MediaType string        `json:"type"`
}

// AdminAddContent 手动入库
func (h *Handler) AdminAddContent(c *gin.Context) {
	var req adminContentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	content, err := h.Services.Catalog.AdminAdd(c.Request.Context(), middleware.GetUserID(c), req.TMDBID.Int(), req.MediaType)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, content)
}

// AdminDeleteContent 删除内容
func (h *Handler) AdminDeleteContent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Services.Catalog.AdminDelete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	utils.NoContent(c)
}

// AdminStats 后台概览
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Services.Admin.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, stats)
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.Repos.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.Log.Error("health check failed", "error", err)
		utils.Error(c, http.StatusServiceUnavailable, "数据库不可用")
		return
	}
	utils.Success(c, gin.H{"status": "ok"})
}
