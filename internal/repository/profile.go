package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/cinelist/internal/model"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db       *gorm.DB
	counters *CounterRepository
}

func NewProfileRepository(db *gorm.DB, counters *CounterRepository) *ProfileRepository {
	return &ProfileRepository{db: db, counters: counters}
}

// Create 创建档案
func (r *ProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	id, err := r.counters.Next(ctx, model.CounterProfileID)
	if err != nil {
		return err
	}
	profile.ID = id
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByID 根据 ID 查找档案
func (r *ProfileRepository) FindByID(ctx context.Context, id int) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListByUser 获取用户的全部档案
func (r *ProfileRepository) ListByUser(ctx context.Context, userID int) ([]*model.Profile, error) {
	profiles := []*model.Profile{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&profiles).Error
	return profiles, err
}

// ListIDsByUser 获取用户的全部档案 ID
func (r *ProfileRepository) ListIDsByUser(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

// Update 保存档案的可变字段
func (r *ProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(profile).Select("name", "avatar_id", "is_kids", "updated_at").Updates(profile).Error
}

// Delete 删除档案及其片单条目和评论
func (r *ProfileRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&model.WatchlistEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Profile{}, id).Error
	})
}

// Count 获取档案总数
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&count).Error
	return count, err
}
