package postgres

import (
	"errors"
	"strconv"

	"github.com/frahmantamala/mediscript/internal/auth"
	userDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForUsername(email string) (string, string, error) {
	var row userDatamodel.User
	err := r.db.Select("id", "password_hash").
		Where("email = ? AND is_active = ?", email, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", auth.ErrUserNotFound
		}
		return "", "", err
	}
	return row.PasswordHash, strconv.FormatInt(row.ID, 10), nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ? AND is_active = ?", userID, true).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return FromDataModel(&row)
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&userDatamodel.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateUser(u *auth.User, passwordHash string) error {
	row, err := ToDataModel(u)
	if err != nil {
		return err
	}
	row.PasswordHash = passwordHash
	row.IsActive = true
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	return nil
}

func ToDataModel(u *auth.User) (*userDatamodel.User, error) {
	perms, err := userDatamodel.EncodePermissions(userDatamodel.PermissionSet{
		CanManageTemplates: u.Permissions.CanManageTemplates,
		CanManageStaff:     u.Permissions.CanManageStaff,
		CanWriteReports:    u.Permissions.CanWriteReports,
		CanManagePatients:  u.Permissions.CanManagePatients,
	})
	if err != nil {
		return nil, err
	}
	return &userDatamodel.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Permissions: perms,
	}, nil
}

func FromDataModel(row *userDatamodel.User) (*auth.User, error) {
	set, err := row.DecodePermissions()
	if err != nil {
		return nil, err
	}
	return &auth.User{
		ID:    row.ID,
		Email: row.Email,
		Name:  row.Name,
		Role:  auth.Role(row.Role),
		Permissions: auth.Permissions{
			CanManageTemplates: set.CanManageTemplates,
			CanManageStaff:     set.CanManageStaff,
			CanWriteReports:    set.CanWriteReports,
			CanManagePatients:  set.CanManagePatients,
		},
	}, nil
}
