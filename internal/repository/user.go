package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/user/cinelist/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db       *gorm.DB
	counters *CounterRepository
}

func NewUserRepository(db *gorm.DB, counters *CounterRepository) *UserRepository {
	return &UserRepository{db: db, counters: counters}
}

// Create 创建用户，ID 取自计数器，密码以 bcrypt 哈希存储
func (r *UserRepository) Create(ctx context.Context, user *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, err := r.counters.Next(ctx, model.CounterUserID)
	if err != nil {
		return err
	}

	user.ID = id
	user.PasswordHash = string(hash)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(email))
}

// FindByPhone 根据手机号查找用户
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

// FindByLogin 根据用户名或邮箱查找用户
func (r *UserRepository) FindByLogin(ctx context.Context, identifier string) (*model.User, error) {
	return r.findOne(ctx, "username = ? OR email = ?", identifier, strings.ToLower(identifier))
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs 批量查找用户，返回 ID 到用户的映射
func (r *UserRepository) FindByIDs(ctx context.Context, ids []int) (map[int]*model.User, error) {
	result := make(map[int]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []*model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// List 分页获取用户列表
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

// Count 获取用户总数
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// UpdateAdmin 更新管理员标记
func (r *UserRepository) UpdateAdmin(ctx context.Context, userID int, isAdmin bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("is_admin", isAdmin).Error
}
