package repository

import (
	"context"
	"errors"

	"github.com/mantonx/moviecatalog/internal/database"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingStarRepository handles database operations for the rating scale
type RatingStarRepository struct {
	db *gorm.DB
}

func NewRatingStarRepository(db *gorm.DB) *RatingStarRepository {
	return &RatingStarRepository{db: db}
}

func (r *RatingStarRepository) Create(ctx context.Context, s *database.RatingStar) error {
	return translate("create_rating_star", "rating_star", s.Value, r.db.WithContext(ctx).Create(s).Error)
}

func (r *RatingStarRepository) Update(ctx context.Context, s *database.RatingStar) error {
	result := r.db.WithContext(ctx).Model(s).Update("value", s.Value)
	if result.Error != nil {
		return translate("update_rating_star", "rating_star", s.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFound("update_rating_star", "rating_star", s.ID)
	}
	return nil
}

func (r *RatingStarRepository) GetByID(ctx context.Context, id uint) (*database.RatingStar, error) {
	var s database.RatingStar
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate("get_rating_star", "rating_star", id, err)
	}
	return &s, nil
}

// List returns the rating scale, highest value first
func (r *RatingStarRepository) List(ctx context.Context) ([]database.RatingStar, error) {
	var out []database.RatingStar
	if err := r.db.WithContext(ctx).Order(database.RatingStarOrder).Find(&out).Error; err != nil {
		return nil, translate("list_rating_stars", "rating_star", "", err)
	}
	return out, nil
}

// Seed creates a star for every value that has none yet and returns how
// many were added.
func (r *RatingStarRepository) Seed(ctx context.Context, values ...int16) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, v := range values {
			var count int64
			if err := tx.Model(&database.RatingStar{}).Where("value = ?", v).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&database.RatingStar{Value: v}).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, translate("seed_rating_stars", "rating_star", "", err)
	}
	return created, nil
}

// Delete removes a star and every rating that used it
func (r *RatingStarRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("star_id = ?", id).Delete(&database.Rating{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&database.RatingStar{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return cerrors.NotFound("delete_rating_star", "rating_star", id)
		}
		return nil
	})
	return translate("delete_rating_star", "rating_star", id, err)
}

// RatingRepository handles database operations for ratings
type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) GetByID(ctx context.Context, id uint) (*database.Rating, error) {
	var rating database.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		return nil, translate("get_rating", "rating", id, err)
	}
	return &rating, nil
}

// ListByMovie returns every rating given to a movie, oldest first
func (r *RatingRepository) ListByMovie(ctx context.Context, movieID uint) ([]database.Rating, error) {
	var out []database.Rating
	if err := r.db.WithContext(ctx).Where("movie_id = ?", movieID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate("list_ratings", "movie", movieID, err)
	}
	return out, nil
}

// List returns every rating, newest first
func (r *RatingRepository) List(ctx context.Context, limit, offset int) ([]database.Rating, int64, error) {
	q := r.db.WithContext(ctx).Model(&database.Rating{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("list_ratings", "rating", "", err)
	}
	page := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		page = page.Limit(limit)
	}
	if offset > 0 {
		page = page.Offset(offset)
	}
	var out []database.Rating
	if err := page.Find(&out).Error; err != nil {
		return nil, 0, translate("list_ratings", "rating", "", err)
	}
	return out, total, nil
}

// Upsert stores rating as the only rating from its address for its movie.
// It reports whether a new row was created. The unique (ip, movie_id) index
// turns a concurrent first rating into an update of the same row.
func (r *RatingRepository) Upsert(ctx context.Context, rating *database.Rating) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing database.Rating
		err := tx.Where("ip = ? AND movie_id = ?", rating.IP, rating.MovieID).First(&existing).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
		default:
			return err
		}

		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ip"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"star_id", "updated_at"}),
		}).Create(rating).Error
		if err != nil {
			return err
		}
		// the returned id is not reliable when the conflict branch ran
		var stored database.Rating
		if err := tx.Where("ip = ? AND movie_id = ?", rating.IP, rating.MovieID).First(&stored).Error; err != nil {
			return err
		}
		*rating = stored
		return nil
	})
	if err != nil {
		return false, translate("upsert_rating", "rating", rating.IP, err)
	}
	return created, nil
}

func (r *RatingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&database.Rating{}, id)
	if result.Error != nil {
		return translate("delete_rating", "rating", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFound("delete_rating", "rating", id)
	}
	return nil
}

// RatingSummary is the aggregate of every rating given to a movie
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Average returns the mean star value and number of ratings for a movie
func (r *RatingRepository) Average(ctx context.Context, movieID uint) (RatingSummary, error) {
	var summary RatingSummary
	err := r.db.WithContext(ctx).Model(&database.Rating{}).
		Select("COALESCE(AVG(rating_stars.value), 0) AS average, COUNT(ratings.id) AS count").
		Joins("JOIN rating_stars ON rating_stars.id = ratings.star_id").
		Where("ratings.movie_id = ?", movieID).
		Scan(&summary).Error
	if err != nil {
		return RatingSummary{}, translate("average_rating", "movie", movieID, err)
	}
	return summary, nil
}
