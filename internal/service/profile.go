package service

import (
	"context"
	"strings"

	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
)

// ProfileInput 新建档案参数
type ProfileInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	AvatarID int    `json:"avatarId" validate:"min=0"`
	IsKids   bool   `json:"isKids"`
}

// ProfileUpdate 档案部分更新，nil 字段保持不变
type ProfileUpdate struct {
	Name     *string `json:"name"`
	AvatarID *int    `json:"avatarId"`
	IsKids   *bool   `json:"isKids"`
}

// ProfileService 档案管理，所有操作都校验档案归属
type ProfileService struct {
	profiles *repository.ProfileRepository
	audit    *AuditService
}

func NewProfileService(profiles *repository.ProfileRepository, audit *AuditService) *ProfileService {
	return &ProfileService{profiles: profiles, audit: audit}
}

// Authorize 加载档案并校验归属：不存在返回 ErrNotFound，属于他人返回 ErrForbidden
func (s *ProfileService) Authorize(ctx context.Context, userID, profileID int) (*model.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, notFound("档案")
	}
	if profile.UserID != userID {
		return nil, ErrForbidden
	}
	return profile, nil
}

// Create 为当前用户新建档案
func (s *ProfileService) Create(ctx context.Context, userID int, in ProfileInput) (*model.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	profile := &model.Profile{
		UserID:   userID,
		Name:     in.Name,
		AvatarID: in.AvatarID,
		IsKids:   in.IsKids,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.ActionProfileCreated, userID, "Profile %s created", profile.Name)
	return profile, nil
}

// List 当前用户的全部档案，没有档案时返回空列表
func (s *ProfileService) List(ctx context.Context, userID int) ([]*model.Profile, error) {
	return s.profiles.ListByUser(ctx, userID)
}

// Get 获取单个档案
func (s *ProfileService) Get(ctx context.Context, userID, profileID int) (*model.Profile, error) {
	return s.Authorize(ctx, userID, profileID)
}

// Update 更新档案
func (s *ProfileService) Update(ctx context.Context, userID, profileID int, in ProfileUpdate) (*model.Profile, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name", "不能为空")
		}
		if len([]rune(name)) > 50 {
			return nil, invalid("name", "长度不能超过 50")
		}
		in.Name = &name
	}
	if in.AvatarID != nil && *in.AvatarID < 0 {
		return nil, invalid("avatarId", "不能小于 0")
	}

	profile, err := s.Authorize(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		profile.Name = *in.Name
	}
	if in.AvatarID != nil {
		profile.AvatarID = *in.AvatarID
	}
	if in.IsKids != nil {
		profile.IsKids = *in.IsKids
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.ActionProfileUpdated, userID, "Profile %s updated", profile.Name)
	return profile, nil
}

// Delete 删除档案及其片单和评论；删除的是当前档案时清空会话指针
func (s *ProfileService) Delete(ctx context.Context, sc *model.SessionContext, profileID int) error {
	profile, err := s.Authorize(ctx, sc.UserID, profileID)
	if err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, profileID); err != nil {
		return err
	}
	if sc.ActiveProfileID == profileID {
		sc.ActiveProfileID = 0
	}
	s.audit.Record(ctx, model.ActionProfileDeleted, sc.UserID, "Profile %s deleted", profile.Name)
	return nil
}

// SetActive 切换当前档案
func (s *ProfileService) SetActive(ctx context.Context, sc *model.SessionContext, profileID int) (*model.Profile, error) {
	if profileID <= 0 {
		return nil, invalid("profileId", "必须为有效的档案 ID")
	}
	profile, err := s.Authorize(ctx, sc.UserID, profileID)
	if err != nil {
		return nil, err
	}
	sc.ActiveProfileID = profile.ID
	s.audit.Record(ctx, model.ActionProfileSelected, sc.UserID, "Profile %s selected", profile.Name)
	return profile, nil
}

// GetActive 读取并重新校验当前档案
func (s *ProfileService) GetActive(ctx context.Context, sc *model.SessionContext) (*model.Profile, error) {
	if !sc.HasActiveProfile() {
		return nil, ErrNoActiveProfile
	}
	return s.Authorize(ctx, sc.UserID, sc.ActiveProfileID)
}
