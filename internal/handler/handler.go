package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/logger"
	"github.com/user/cinelist/internal/repository"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
	Log      *logger.Logger
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, provider service.MetadataProvider, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		Repos:    repos,
		Services: service.NewServices(repos, provider, cfg, log),
		Config:   cfg,
		Log:      log,
	}
}

// bindJSON 解析请求体，失败时直接返回 400
func (h *Handler) bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.BadRequest(c, "请求参数格式错误")
		return false
	}
	return true
}

// paramID 解析路径中的正整数 ID，失败时直接返回 400
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "无效的 "+name)
		return 0, false
	}
	return id, true
}
