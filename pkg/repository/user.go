package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"beercomi.dev/BeerComi/pkg/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserConflict = errors.New("email or display name already taken")
)

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

func (r *Repository) GetUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User

	if result := r.DB.WithContext(ctx).Order("display_name").Find(&users); result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (r *Repository) AddUser(ctx context.Context, email, passwordHash, displayName string) (*model.User, error) {
	user := model.User{
		Email:       email,
		Password:    passwordHash,
		DisplayName: displayName,
		Role:        model.RoleBasic,
	}

	if result := r.DB.WithContext(ctx).Create(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrUserConflict
		}

		return nil, result.Error
	}

	return &user, nil
}

func (r *Repository) UpdateUserPassword(ctx context.Context, userID uint, passwordHash string) error {
	result := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("password", passwordHash)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *Repository) UpdateUserProfile(ctx context.Context, userID uint, presentLocation, introduction string) error {
	result := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"present_location": presentLocation, "introduction": introduction})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *Repository) UpdateUserRole(ctx context.Context, userID uint, role string) error {
	result := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetUserAvatar stores the avatar path and returns the previous one so
// the caller can remove the replaced file.
func (r *Repository) SetUserAvatar(ctx context.Context, userID uint, path string) (previous *string, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User

		if result := tx.First(&user, userID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return result.Error
		}

		previous = user.ProfileImgURL

		return tx.Model(&user).Update("profile_img_url", path).Error
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

func (r *Repository) DeleteUser(ctx context.Context, userID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.User{}, userID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
