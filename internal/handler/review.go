package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/middleware"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

type createReviewRequest struct {
	ProfileID utils.FlexInt `json:"profileId"`
	TMDBID    utils.FlexInt `json:"tmdbId"`
	MediaType string        `json:"type"`
	Rating    interface{}   `json:"rating"`
	Body      string        `json:"review"`
	IsPublic  *bool         `json:"isPublic"`
}

type updateReviewRequest struct {
	Rating   interface{} `json:"rating"`
	Body     *string     `json:"review"`
	IsPublic *bool       `json:"isPublic"`
}

// CreateReview 发表评分与短评，默认公开
func (h *Handler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rating, err := service.ParseRating(req.Rating)
	if err != nil {
		h.respondError(c, err)
		return
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	review, err := h.Services.Review.Create(c.Request.Context(), middleware.GetUserID(c), service.ReviewInput{
		ProfileID: req.ProfileID.Int(),
		TMDBID:    req.TMDBID.Int(),
		MediaType: req.MediaType,
		Rating:    rating,
		Body:      req.Body,
		IsPublic:  isPublic,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, review)
}

// UpdateReview 修改评论，未提供的字段保持不变
func (h *Handler) UpdateReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	in := service.ReviewUpdate{Body: req.Body, IsPublic: req.IsPublic}
	if req.Rating != nil {
		rating, err := service.ParseRating(req.Rating)
		if err != nil {
			h.respondError(c, err)
			return
		}
		in.Rating = &rating
	}
	review, err := h.Services.Review.Update(c.Request.Context(), middleware.GetUserID(c), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, review)
}

// DeleteReview 删除评论
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Services.Review.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	utils.NoContent(c)
}

// ContentReviews 某内容下当前用户可见的评论
func (h *Handler) ContentReviews(c *gin.Context) {
	contentID, ok := paramID(c, "contentId")
	if !ok {
		return
	}
	p := utils.ParsePagination(c, 20)
	reviews, err := h.Services.Review.ListForContent(c.Request.Context(), middleware.GetSessionContext(c), contentID, p.Limit, p.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, reviews)
}

// ProfileReviews 档案自己的评论
func (h *Handler) ProfileReviews(c *gin.Context) {
	profileID, ok := paramID(c, "profileId")
	if !ok {
		return
	}
	p := utils.ParsePagination(c, 20)
	reviews, err := h.Services.Review.ListForProfile(c.Request.Context(), middleware.GetUserID(c), profileID, p.Limit, p.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, reviews)
}
