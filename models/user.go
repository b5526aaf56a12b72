package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/utils"
)

type User struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email        string    `gorm:"size:100;not null;unique" json:"email" binding:"required"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	Role         UserRole  `gorm:"type:enum('admin', 'member');default:'member'" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UserCredentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserProfileUpdate struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {

	if !utils.IsValidEmail(input.Email) {
		return nil, fmt.Errorf("%w: invalid email", utils.ErrorValidation)
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email already registered", utils.ErrorValidation)
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         UserRoleMember,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func AuthenticateUser(ctx context.Context, input *UserCredentials) (*User, error) {

	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error; err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := utils.ComparePassword(user.PasswordHash, input.Password); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	return utils.FetchSingleModel[User](ctx, id)
}

func UpdateUserProfile(ctx context.Context, id int, input *UserProfileUpdate) (*User, error) {

	user, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["Name"] = input.Name
	}
	if input.Avatar != "" {
		updates["Avatar"] = input.Avatar
	}
	if len(updates) == 0 {
		return user, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}
