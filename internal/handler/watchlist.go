package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/middleware"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

// MyList 当前档案的片单
func (h *Handler) MyList(c *gin.Context) {
	p := utils.ParsePagination(c, 20)
	entries, err := h.Services.Watchlist.ListActive(c.Request.Context(), middleware.GetSessionContext(c), p.Limit, p.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, entries)
}

// ProfileList 指定档案的片单
func (h *Handler) ProfileList(c *gin.Context) {
	profileID, ok := paramID(c, "profileId")
	if !ok {
		return
	}
	p := utils.ParsePagination(c, 20)
	entries, err := h.Services.Watchlist.List(c.Request.Context(), middleware.GetUserID(c), profileID, p.Limit, p.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, entries)
}

// CheckMyList 是否在片单中
func (h *Handler) CheckMyList(c *gin.Context) {
	profileID, ok := paramID(c, "profileId")
	if !ok {
		return
	}
	tmdbID, ok := paramID(c, "tmdbId")
	if !ok {
		return
	}
	inList, err := h.Services.Watchlist.IsMember(c.Request.Context(), middleware.GetUserID(c), profileID, tmdbID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"inList": inList})
}

type addToListRequest struct {
	ProfileID utils.FlexInt `json:"profileId"`
	TMDBID    utils.FlexInt `json:"tmdbId"`
	MediaType string        `json:"type"`
}

// AddToMyList 加入片单
func (h *Handler) AddToMyList(c *gin.Context) {
	var req addToListRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.Services.Watchlist.Add(c.Request.Context(), middleware.GetUserID(c), service.WatchlistInput{
		ProfileID: req.ProfileID.Int(),
		TMDBID:    req.TMDBID.Int(),
		MediaType: req.MediaType,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, entry)
}

// RemoveFromMyList 移出片单
func (h *Handler) RemoveFromMyList(c *gin.Context) {
	profileID, ok := paramID(c, "profileId")
	if !ok {
		return
	}
	tmdbID, ok := paramID(c, "tmdbId")
	if !ok {
		return
	}
	if err := h.Services.Watchlist.Remove(c.Request.Context(), middleware.GetUserID(c), profileID, tmdbID); err != nil {
		h.respondError(c, err)
		return
	}
	utils.NoContent(c)
}
