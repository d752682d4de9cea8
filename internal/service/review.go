package service

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
)

// ReviewInput 新建评论参数，Rating 已由 ParseRating 解析
type ReviewInput struct {
	ProfileID int
	TMDBID    int
	MediaType string
	Rating    int
	Body      string
	IsPublic  bool
}

// ReviewUpdate 评论部分更新
type ReviewUpdate struct {
	Rating   *int
	Body     *string
	IsPublic *bool
}

// ReviewService 评分与短评
type ReviewService struct {
	reviews    *repository.ReviewRepository
	profiles   *repository.ProfileRepository
	access     *ProfileService
	catalog    *CatalogService
	audit      *AuditService
	visibility string
}

func NewReviewService(reviews *repository.ReviewRepository, profiles *repository.ProfileRepository, access *ProfileService, catalog *CatalogService, audit *AuditService, visibility string) *ReviewService {
	if visibility != config.VisibilityAccount {
		visibility = config.VisibilityProfile
	}
	return &ReviewService{
		reviews:    reviews,
		profiles:   profiles,
		access:     access,
		catalog:    catalog,
		audit:      audit,
		visibility: visibility,
	}
}

func validateRating(rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return invalid("rating", "评分必须为 1 到 5 的整数")
	}
	return nil
}

func validateBody(body string) error {
	if utf8.RuneCountInString(body) > model.MaxReviewBody {
		return invalid("review", "短评不能超过 500 字")
	}
	return nil
}

// Create 新建评论；同一档案对同一内容已有评论时返回带已有评论 ID 的 DuplicateError
func (s *ReviewService) Create(ctx context.Context, userID int, in ReviewInput) (*model.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := validateKey(in.TMDBID, in.MediaType); err != nil {
		return nil, err
	}
	in.Body = strings.TrimSpace(in.Body)
	if err := validateBody(in.Body); err != nil {
		return nil, err
	}

	profile, err := s.access.Authorize(ctx, userID, in.ProfileID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reviews.FindByProfileAndItem(ctx, in.ProfileID, in.TMDBID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateError{Resource: "评论", ExistingID: existing.ID}
	}

	// 确保内容已进入目录
	content, err := s.catalog.Resolve(ctx, in.TMDBID, in.MediaType)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		ProfileID: in.ProfileID,
		TMDBID:    in.TMDBID,
		MediaType: in.MediaType,
		Rating:    in.Rating,
		Body:      in.Body,
		IsPublic:  in.IsPublic,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			dup := &DuplicateError{Resource: "评论"}
			if winner, ferr := s.reviews.FindByProfileAndItem(ctx, in.ProfileID, in.TMDBID); ferr == nil && winner != nil {
				dup.ExistingID = winner.ID
			}
			return nil, dup
		}
		return nil, err
	}

	s.audit.Record(ctx, model.ActionReviewCreated, userID, "Profile %s rated %q %d/5", profile.Name, content.Title, review.Rating)
	return review, nil
}

// authorizeReview 加载评论并校验其档案属于当前用户
func (s *ReviewService) authorizeReview(ctx context.Context, userID, reviewID int) (*model.Review, *model.Profile, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, nil, err
	}
	if review == nil {
		return nil, nil, notFound("评论")
	}
	profile, err := s.access.Authorize(ctx, userID, review.ProfileID)
	if err != nil {
		return nil, nil, err
	}
	return review, profile, nil
}

// Update 更新评论
func (s *ReviewService) Update(ctx context.Context, userID, reviewID int, in ReviewUpdate) (*model.Review, error) {
	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
	}
	if in.Body != nil {
		body := strings.TrimSpace(*in.Body)
		if err := validateBody(body); err != nil {
			return nil, err
		}
		in.Body = &body
	}

	review, profile, err := s.authorizeReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	if in.Body != nil {
		review.Body = *in.Body
	}
	if in.IsPublic != nil {
		review.IsPublic = *in.IsPublic
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.ActionReviewUpdated, userID, "Profile %s updated review %d", profile.Name, review.ID)
	return review, nil
}

// Delete 删除评论
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int) error {
	review, profile, err := s.authorizeReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	deleted, err := s.reviews.Delete(ctx, review.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("评论")
	}
	s.audit.Record(ctx, model.ActionReviewDeleted, userID, "Profile %s deleted review %d", profile.Name, review.ID)
	return nil
}

// ListForContent 内容的评论列表：公开评论加上查看者有权看到的私密评论，过滤后再分页
func (s *ReviewService) ListForContent(ctx context.Context, sc *model.SessionContext, contentID, limit, offset int) ([]*model.Review, error) {
	content, err := s.catalog.FindByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByItem(ctx, content.TMDBID, content.MediaType)
	if err != nil {
		return nil, err
	}

	ownIDs, err := s.profiles.ListIDsByUser(ctx, sc.UserID)
	if err != nil {
		return nil, err
	}
	visible := make([]*model.Review, 0, len(reviews))
	for _, r := range reviews {
		if s.canSee(sc, ownIDs, r) {
			visible = append(visible, r)
		}
	}
	return paginate(visible, limit, offset), nil
}

func paginate(reviews []*model.Review, limit, offset int) []*model.Review {
	if offset >= len(reviews) {
		return []*model.Review{}
	}
	reviews = reviews[max(offset, 0):]
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews
}

func (s *ReviewService) canSee(sc *model.SessionContext, ownIDs []int, r *model.Review) bool {
	if r.IsPublic {
		return true
	}
	if s.visibility == config.VisibilityAccount {
		return slices.Contains(ownIDs, r.ProfileID)
	}
	// 当前档案必须仍属于该用户
	return sc.HasActiveProfile() && r.ProfileID == sc.ActiveProfileID && slices.Contains(ownIDs, sc.ActiveProfileID)
}

// ListForProfile 档案自己的评论
func (s *ReviewService) ListForProfile(ctx context.Context, userID, profileID, limit, offset int) ([]*model.Review, error) {
	if _, err := s.access.Authorize(ctx, userID, profileID); err != nil {
		return nil, err
	}
	return s.reviews.ListByProfile(ctx, profileID, limit, offset)
}
