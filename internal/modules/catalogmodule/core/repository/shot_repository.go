package repository

import (
	"context"

	"github.com/mantonx/moviecatalog/internal/database"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
)

// MovieShotRepository handles database operations for movie stills
type MovieShotRepository struct {
	db *gorm.DB
}

func NewMovieShotRepository(db *gorm.DB) *MovieShotRepository {
	return &MovieShotRepository{db: db}
}

func (r *MovieShotRepository) Create(ctx context.Context, s *database.MovieShot) error {
	return translate("create_movie_shot", "movie_shot", s.Title, r.db.WithContext(ctx).Create(s).Error)
}

func (r *MovieShotRepository) Update(ctx context.Context, s *database.MovieShot) error {
	result := updateAll(r.db.WithContext(ctx), s)
	if result.Error != nil {
		return translate("update_movie_shot", "movie_shot", s.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFound("update_movie_shot", "movie_shot", s.ID)
	}
	return nil
}

func (r *MovieShotRepository) GetByID(ctx context.Context, id uint) (*database.MovieShot, error) {
	var s database.MovieShot
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate("get_movie_shot", "movie_shot", id, err)
	}
	return &s, nil
}

func (r *MovieShotRepository) ListByMovie(ctx context.Context, movieID uint) ([]database.MovieShot, error) {
	var out []database.MovieShot
	if err := r.db.WithContext(ctx).Where("movie_id = ?", movieID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate("list_movie_shots", "movie", movieID, err)
	}
	return out, nil
}

func (r *MovieShotRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&database.MovieShot{}, id)
	if result.Error != nil {
		return translate("delete_movie_shot", "movie_shot", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFound("delete_movie_shot", "movie_shot", id)
	}
	return nil
}
