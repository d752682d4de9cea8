package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/cinelist/internal/model"
	"gorm.io/gorm"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// FindByID 根据本地 ID 查找内容
func (r *ContentRepository) FindByID(ctx context.Context, id int) (*model.Content, error) {
	var content model.Content
	err := r.db.WithContext(ctx).First(&content, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// FindByExternalID 根据 TMDB ID 和媒体类型查找内容
func (r *ContentRepository) FindByExternalID(ctx context.Context, tmdbID int, mediaType string) (*model.Content, error) {
	var content model.Content
	err := r.db.WithContext(ctx).Where("tmdb_id = ? AND media_type = ?", tmdbID, mediaType).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// FindByExternalIDs 批量查找内容，结果按 TMDB ID 分组
func (r *ContentRepository) FindByExternalIDs(ctx context.Context, tmdbIDs []int) ([]*model.Content, error) {
	var contents []*model.Content
	if len(tmdbIDs) == 0 {
		return contents, nil
	}
	err := r.db.WithContext(ctx).Where("tmdb_id IN ?", tmdbIDs).Find(&contents).Error
	return contents, err
}

// Create 写入内容，组合键冲突时返回唯一约束错误
func (r *ContentRepository) Create(ctx context.Context, content *model.Content) error {
	if content.AddedAt.IsZero() {
		content.AddedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(content).Error
}

// Delete 删除内容，返回是否有记录被删除
func (r *ContentRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Content{}, id)
	return result.RowsAffected > 0, result.Error
}

// List 按加入时间倒序分页
func (r *ContentRepository) List(ctx context.Context, limit, offset int) ([]*model.Content, error) {
	var contents []*model.Content
	err := r.db.WithContext(ctx).Order("added_at DESC").Limit(limit).Offset(offset).Find(&contents).Error
	return contents, err
}

// Count 获取内容总数
func (r *ContentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Content{}).Count(&count).Error
	return count, err
}
