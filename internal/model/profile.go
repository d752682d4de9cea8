package model

import "time"

// Profile 用户档案（同一账号下的观看者）
type Profile struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	UserID    int       `json:"userId" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	AvatarID  int       `json:"avatarId" gorm:"not null;default:0"`
	IsKids    bool      `json:"isKids" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
