package service

import (
	"context"
	"slices"
	"strings"

	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput 登录参数，username 也可以填邮箱
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserService 账号注册、登录与管理
type UserService struct {
	users       *repository.UserRepository
	audit       *AuditService
	adminEmails []string
}

func NewUserService(users *repository.UserRepository, audit *AuditService, adminEmails []string) *UserService {
	return &UserService{users: users, audit: audit, adminEmails: adminEmails}
}

// Register 注册新用户
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if existing, err := s.users.FindByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &DuplicateError{Resource: "用户", Field: "用户名", ExistingID: existing.ID}
	}
	if existing, err := s.users.FindByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &DuplicateError{Resource: "用户", Field: "邮箱", ExistingID: existing.ID}
	}

	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		IsAdmin:  slices.Contains(s.adminEmails, in.Email),
	}
	if in.Phone != "" {
		if existing, err := s.users.FindByPhone(ctx, in.Phone); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, &DuplicateError{Resource: "用户", Field: "手机号", ExistingID: existing.ID}
		}
		phone := in.Phone
		user.Phone = &phone
	}

	if err := s.users.Create(ctx, user, in.Password); err != nil {
		// 检查与插入之间被并发注册抢先
		if repository.IsUniqueViolation(err) {
			return nil, &DuplicateError{Resource: "用户"}
		}
		return nil, err
	}

	s.audit.Record(ctx, model.ActionUserRegistered, user.ID, "New user registered: %s", user.Username)
	return user, nil
}

// Authenticate 校验用户名（或邮箱）和密码
func (s *UserService) Authenticate(ctx context.Context, in LoginInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	user, err := s.users.FindByLogin(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.users.CheckPassword(user, in.Password) {
		return nil, ErrInvalidCredentials
	}
	s.audit.Record(ctx, model.ActionUserLogin, user.ID, "User %s logged in", user.Username)
	return user, nil
}

// Get 根据 ID 获取用户
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("用户")
	}
	return user, nil
}

// List 分页获取用户，返回总数
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*model.User, int64, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetAdmin 设置管理员标记，管理员不能撤销自己的权限
func (s *UserService) SetAdmin(ctx context.Context, actorID, userID int, isAdmin bool) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actorID == userID && !isAdmin {
		return nil, invalid("isAdmin", "不能撤销自己的管理员权限")
	}
	if user.IsAdmin == isAdmin {
		return user, nil
	}
	if err := s.users.UpdateAdmin(ctx, userID, isAdmin); err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	s.audit.Record(ctx, model.ActionUserAdminChange, actorID, "User %s admin flag set to %t", user.Username, isAdmin)
	return user, nil
}
