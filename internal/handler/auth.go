package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/middleware"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

// Register 注册并直接登录
func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if !h.bindJSON(c, &in) {
		return
	}
	user, err := h.Services.User.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !h.saveSession(c, func() error { return middleware.Login(c, user) }) {
		return
	}
	utils.Created(c, user)
}

// Login 登录，同时签发 Bearer Token
func (h *Handler) Login(c *gin.Context) {
	var in service.LoginInput
	if !h.bindJSON(c, &in) {
		return
	}
	user, err := h.Services.User.Authenticate(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	token, err := middleware.GenerateToken(user.ID, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !h.saveSession(c, func() error { return middleware.Login(c, user) }) {
		return
	}
	utils.Success(c, gin.H{"user": user, "token": token})
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	if !h.saveSession(c, func() error { return middleware.Logout(c) }) {
		return
	}
	utils.NoContent(c)
}

// CurrentUser 当前登录用户
func (h *Handler) CurrentUser(c *gin.Context) {
	sc := middleware.GetSessionContext(c)
	utils.Success(c, gin.H{
		"user":            middleware.CurrentUser(c),
		"activeProfileId": sc.ActiveProfileID,
	})
}
