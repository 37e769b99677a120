package user

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           int64          `gorm:"primaryKey"`
	Email        string         `gorm:"column:email;uniqueIndex;not null"`
	Name         string         `gorm:"column:name;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         string         `gorm:"column:role;not null"`
	Permissions  datatypes.JSON `gorm:"column:permissions;not null"`
	IsActive     bool           `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// PermissionSet is the JSON shape stored in users.permissions.
type PermissionSet struct {
	CanManageTemplates bool `json:"canManageTemplates"`
	CanManageStaff     bool `json:"canManageStaff"`
	CanWriteReports    bool `json:"canWriteReports"`
	CanManagePatients  bool `json:"canManagePatients"`
}

func EncodePermissions(set PermissionSet) (datatypes.JSON, error) {
	b, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("encode permissions: %w", err)
	}
	return datatypes.JSON(b), nil
}

// DecodePermissions reads the permission column; an empty column grants nothing.
func (u *User) DecodePermissions() (PermissionSet, error) {
	var set PermissionSet
	if len(u.Permissions) == 0 {
		return set, nil
	}
	if err := json.Unmarshal(u.Permissions, &set); err != nil {
		return set, fmt.Errorf("decode permissions for user %d: %w", u.ID, err)
	}
	return set, nil
}
