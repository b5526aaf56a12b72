package models

import (
	"context"
	"fmt"
	"time"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/utils"
)

// Categories are shared across users, matching the original schema: only
// admins may mutate them, everyone reads them.
type Category struct {
	ID        int          `gorm:"primary_key" json:"id"`
	Name      string       `gorm:"size:100;not null;unique" json:"name" binding:"required"`
	Icon      string       `gorm:"size:50" json:"icon"`
	Color     string       `gorm:"size:20" json:"color"`
	Type      CategoryType `gorm:"type:enum('income', 'expense');default:'expense';size:10;not null" json:"type" binding:"required"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name  string       `json:"name" binding:"required"`
	Icon  string       `json:"icon"`
	Color string       `json:"color"`
	Type  CategoryType `json:"type" binding:"required"`
}

func (c Category) GetId() int {
	return c.ID
}

func (input *NewCategory) validate() error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: invalid category type %q", utils.ErrorValidation, input.Type)
	}
	return nil
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	category := Category{
		Name:  input.Name,
		Icon:  input.Icon,
		Color: input.Color,
		Type:  input.Type,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func UpdateCategory(ctx context.Context, id int, input *NewCategory) (*Category, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	category, err := utils.FetchSingleModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(category).Updates(map[string]interface{}{
		"Name":  input.Name,
		"Icon":  input.Icon,
		"Color": input.Color,
		"Type":  input.Type,
	}).Error
	if err != nil {
		return nil, err
	}
	return category, nil
}

func DeleteCategory(ctx context.Context, id int) (*Category, error) {

	category, err := utils.FetchSingleModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.CountWhere[Transaction](ctx, "category_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		count, err = utils.CountWhere[Payment](ctx, "category_id = ?", id)
		if err != nil {
			return nil, err
		}
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category is in use", utils.ErrorValidation)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func GetCategory(ctx context.Context, id int) (*Category, error) {
	return utils.FetchSingleModel[Category](ctx, id)
}

func GetCategories(ctx context.Context, categoryType *CategoryType) ([]*Category, error) {

	db := config.GetDB()
	var results []*Category

	dbCtx := db.WithContext(ctx)
	if categoryType != nil && *categoryType != "" {
		dbCtx = dbCtx.Where("type = ?", *categoryType)
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
