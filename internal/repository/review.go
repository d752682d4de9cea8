package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/cinelist/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// FindByID 根据 ID 查找评论
func (r *ReviewRepository) FindByID(ctx context.Context, id int) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByProfileAndItem 查找档案对某内容的评论
func (r *ReviewRepository) FindByProfileAndItem(ctx context.Context, profileID, tmdbID int) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).Where("profile_id = ? AND tmdb_id = ?", profileID, tmdbID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create 写入评论，重复时返回唯一约束错误
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	return r.db.WithContext(ctx).Omit("Profile").Create(review).Error
}

// Update 保存评分、内容和公开状态
func (r *ReviewRepository) Update(ctx context.Context, review *model.Review) error {
	review.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(review).
		Select("rating", "body", "is_public", "updated_at").
		Updates(review).Error
}

// Delete 删除评论，返回是否有记录被删除
func (r *ReviewRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	return result.RowsAffected > 0, result.Error
}

// ListByItem 获取某内容的全部评论（附带档案信息），最新的在前
func (r *ReviewRepository) ListByItem(ctx context.Context, tmdbID int, mediaType string) ([]*model.Review, error) {
	reviews := []*model.Review{}
	err := r.db.WithContext(ctx).Preload("Profile").
		Where("tmdb_id = ? AND media_type = ?", tmdbID, mediaType).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

// ListByProfile 获取档案的评论
func (r *ReviewRepository) ListByProfile(ctx context.Context, profileID, limit, offset int) ([]*model.Review, error) {
	reviews := []*model.Review{}
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

// Count 获取评论总数
func (r *ReviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Count(&count).Error
	return count, err
}
