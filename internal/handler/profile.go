package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/middleware"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

// ListProfiles 当前用户的档案
func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.Services.Profile.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, profiles)
}

// CreateProfile 新建档案
func (h *Handler) CreateProfile(c *gin.Context) {
	var in service.ProfileInput
	if !h.bindJSON(c, &in) {
		return
	}
	profile, err := h.Services.Profile.Create(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, profile)
}

// GetProfile 单个档案
func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	profile, err := h.Services.Profile.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

// UpdateProfile 更新档案
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in service.ProfileUpdate
	if !h.bindJSON(c, &in) {
		return
	}
	profile, err := h.Services.Profile.Update(c.Request.Context(), middleware.GetUserID(c), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

// DeleteProfile 删除档案
func (h *Handler) DeleteProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sc := middleware.GetSessionContext(c)
	if err := h.Services.Profile.Delete(c.Request.Context(), sc, id); err != nil {
		h.respondError(c, err)
		return
	}
	if !h.saveSession(c, func() error { return middleware.SaveSessionContext(c, sc) }) {
		return
	}
	utils.NoContent(c)
}

type activeProfileRequest struct {
	ProfileID *int `json:"profileId"`
}

// SetActiveProfile 切换当前档案
func (h *Handler) SetActiveProfile(c *gin.Context) {
	var req activeProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.ProfileID == nil {
		utils.ErrorWithData(c, http.StatusBadRequest, "profileId 不能为空", gin.H{"field": "profileId"})
		return
	}
	sc := middleware.GetSessionContext(c)
	profile, err := h.Services.Profile.SetActive(c.Request.Context(), sc, *req.ProfileID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !h.saveSession(c, func() error { return middleware.SaveSessionContext(c, sc) }) {
		return
	}
	utils.Success(c, gin.H{"activeProfile": profile})
}

// GetActiveProfile 当前档案
func (h *Handler) GetActiveProfile(c *gin.Context) {
	profile, err := h.Services.Profile.GetActive(c.Request.Context(), middleware.GetSessionContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"activeProfile": profile})
}
