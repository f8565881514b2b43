package models

import (
	"time"
)

// User model for authentication. Usernames and emails are unique in
// practice but not constrained at the schema level; the register handler
// enforces uniqueness.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"user_id"`
	Username     string    `gorm:"index;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"index;not null" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Token is an opaque bearer credential issued at login. A user can hold
// several live tokens at once (multi-device login); logout revokes all of
// them. Rows are never deleted, only flagged expired.
type Token struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"index;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Expired   bool      `gorm:"default:false" json:"expired"`
}

func (Token) TableName() string {
	return "tokens"
}

// Role model
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"role_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
}

func (Role) TableName() string {
	return "roles"
}

// UserRole links a user to a role. The schema allows several roles per
// user but only the first match is ever consulted.
type UserRole struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RoleID uint `gorm:"index;not null" json:"role_id"`
	Role   Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// Permission model. Present for schema compatibility; no handler consults it.
type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"permission_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}

// PermissionRole links a permission to a role. Schema compatibility only.
type PermissionRole struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PermissionID uint       `gorm:"index;not null" json:"permission_id"`
	Permission   Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE" json:"-"`
	RoleID       uint       `gorm:"index;not null" json:"role_id"`
	Role         Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PermissionRole) TableName() string {
	return "permission_roles"
}
