package repository

import (
	"context"

	"github.com/mantonx/moviecatalog/internal/database"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *database.Category) error {
	return translate("create_category", "category", c.URL, r.db.WithContext(ctx).Create(c).Error)
}

func (r *CategoryRepository) Update(ctx context.Context, c *database.Category) error {
	result := updateAll(r.db.WithContext(ctx), c)
	if result.Error != nil {
		return translate("update_category", "category", c.URL, result.Error)
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFound("update_category", "category", c.ID)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*database.Category, error) {
	var c database.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate("get_category", "category", id, err)
	}
	return &c, nil
}

func (r *CategoryRepository) GetByURL(ctx context.Context, url string) (*database.Category, error) {
	var c database.Category
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&c).Error; err != nil {
		return nil, translate("get_category", "category", url, err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]database.Category, error) {
	var out []database.Category
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, translate("list_categories", "category", "", err)
	}
	return out, nil
}

// URLTaken reports whether another category already uses url
func (r *CategoryRepository) URLTaken(ctx context.Context, url string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&database.Category{}).
		Where("url = ? AND id <> ?", url, excludeID).Count(&count).Error
	if err != nil {
		return false, translate("check_category_url", "category", url, err)
	}
	return count > 0, nil
}

// Delete removes a category. Its movies stay in the catalog without one.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.Movie{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&database.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return cerrors.NotFound("delete_category", "category", id)
		}
		return nil
	})
	return translate("delete_category", "category", id, err)
}
