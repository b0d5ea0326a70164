package repository

import (
	"context"

	"github.com/mantonx/moviecatalog/internal/database"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
)

// GenreRepository handles database operations for genres
type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Create(ctx context.Context, g *database.Genre) error {
	return translate("create_genre", "genre", g.URL, r.db.WithContext(ctx).Create(g).Error)
}

func (r *GenreRepository) Update(ctx context.Context, g *database.Genre) error {
	result := updateAll(r.db.WithContext(ctx), g)
	if result.Error != nil {
		return translate("update_genre", "genre", g.URL, result.Error)
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFound("update_genre", "genre", g.ID)
	}
	return nil
}

func (r *GenreRepository) GetByID(ctx context.Context, id uint) (*database.Genre, error) {
	var g database.Genre
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, translate("get_genre", "genre", id, err)
	}
	return &g, nil
}

func (r *GenreRepository) GetByURL(ctx context.Context, url string) (*database.Genre, error) {
	var g database.Genre
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&g).Error; err != nil {
		return nil, translate("get_genre", "genre", url, err)
	}
	return &g, nil
}

func (r *GenreRepository) List(ctx context.Context) ([]database.Genre, error) {
	var out []database.Genre
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, translate("list_genres", "genre", "", err)
	}
	return out, nil
}

// URLTaken reports whether another genre already uses url
func (r *GenreRepository) URLTaken(ctx context.Context, url string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&database.Genre{}).
		Where("url = ? AND id <> ?", url, excludeID).Count(&count).Error
	if err != nil {
		return false, translate("check_genre_url", "genre", url, err)
	}
	return count > 0, nil
}

// Delete removes a genre and its movie links
func (r *GenreRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", id).Delete(&database.MovieGenre{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&database.Genre{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return cerrors.NotFound("delete_genre", "genre", id)
		}
		return nil
	})
	return translate("delete_genre", "genre", id, err)
}
