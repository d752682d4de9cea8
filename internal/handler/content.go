package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

// Newest 最新热门
func (h *Handler) Newest(c *gin.Context) {
	p := utils.ParsePagination(c, 10)
	items, err := h.Services.Catalog.Newest(c.Request.Context(), p.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, items)
}

// Popular 最受欢迎
func (h *Handler) Popular(c *gin.Context) {
	p := utils.ParsePagination(c, 10)
	items, err := h.Services.Catalog.Popular(c.Request.Context(), p.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, items)
}

// Movies 热门电影
func (h *Handler) Movies(c *gin.Context) {
	p := utils.ParsePagination(c, 20)
	items, err := h.Services.Catalog.Movies(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, items)
}

// TVShows 热门剧集
func (h *Handler) TVShows(c *gin.Context) {
	p := utils.ParsePagination(c, 20)
	items, err := h.Services.Catalog.TVShows(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, items)
}

// SearchContent 搜索，支持 q/page/language/genre/year
func (h *Handler) SearchContent(c *gin.Context) {
	p := utils.ParsePagination(c, 20)
	filters := service.SearchFilters{
		Page:     p.Page,
		Language: c.Query("language"),
	}
	if genre := c.Query("genre"); genre != "" && genre != "all" {
		filters.Genre, _ = strconv.Atoi(genre)
	}
	if year := c.Query("year"); year != "" {
		filters.Year, _ = strconv.Atoi(year)
	}
	items, err := h.Services.Catalog.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, items)
}

// ResolveContent 按 TMDB ID 获取本地内容，不存在时自动拉取
func (h *Handler) ResolveContent(c *gin.Context) {
	tmdbID, ok := paramID(c, "tmdbId")
	if !ok {
		return
	}
	content, err := h.Services.Catalog.Resolve(c.Request.Context(), tmdbID, c.Param("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, content)
}

// ContentDetails 实时 TMDB 详情与本地内容 ID
func (h *Handler) ContentDetails(c *gin.Context) {
	tmdbID, ok := paramID(c, "tmdbId")
	if !ok {
		return
	}
	details, err := h.Services.Catalog.Details(c.Request.Context(), tmdbID, c.Param("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, details)
}

// ContentByID 按本地 ID 获取内容
func (h *Handler) ContentByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	content, err := h.Services.Catalog.FindByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, content)
}
