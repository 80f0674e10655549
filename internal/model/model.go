package model

import "time"

const (
	AssistantStatusActive   = "ACTIVE"
	AssistantStatusInactive = "INACTIVE"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	RealName     string    `gorm:"size:100;not null" json:"real_name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Roles        []Role    `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Assistant is an application record the admin console manages. AssistantID
// is the externally facing identifier, distinct from the numeric primary key.
type Assistant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AssistantID string    `gorm:"size:100;uniqueIndex;not null" json:"assistant_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	IconURL     *string   `gorm:"type:text" json:"icon_url"`
	Status      string    `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type UserRole struct {
	UserID uint `gorm:"primaryKey"`
	RoleID uint `gorm:"primaryKey"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

type RoleAssistant struct {
	RoleID      uint `gorm:"primaryKey"`
	AssistantID uint `gorm:"primaryKey"`

	Role      Role      `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Assistant Assistant `gorm:"foreignKey:AssistantID;constraint:OnDelete:CASCADE"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

func (RoleAssistant) TableName() string {
	return "role_assistants"
}
