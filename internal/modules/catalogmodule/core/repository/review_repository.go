package repository

import (
	"context"

	"github.com/mantonx/moviecatalog/internal/database"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
)

// ReviewRepository handles database operations for reviews and replies
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *database.Review) error {
	return translate("create_review", "review", review.Email, r.db.WithContext(ctx).Create(review).Error)
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uint) (*database.Review, error) {
	var review database.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate("get_review", "review", id, err)
	}
	return &review, nil
}

// ListByMovie returns every review of a movie, replies included, oldest first
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID uint) ([]database.Review, error) {
	var out []database.Review
	if err := r.db.WithContext(ctx).Where("movie_id = ?", movieID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate("list_reviews", "movie", movieID, err)
	}
	return out, nil
}

// List returns every review, newest first
func (r *ReviewRepository) List(ctx context.Context, limit, offset int) ([]database.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&database.Review{}).Count(&total).Error; err != nil {
		return nil, 0, translate("list_reviews", "review", "", err)
	}
	page := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		page = page.Limit(limit)
	}
	if offset > 0 {
		page = page.Offset(offset)
	}
	var out []database.Review
	if err := page.Find(&out).Error; err != nil {
		return nil, 0, translate("list_reviews", "review", "", err)
	}
	return out, total, nil
}

// TopLevel returns the reviews of a movie that are not replies
func (r *ReviewRepository) TopLevel(ctx context.Context, movieID uint) ([]database.Review, error) {
	var out []database.Review
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND parent_id IS NULL", movieID).
		Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, translate("list_top_level_reviews", "movie", movieID, err)
	}
	return out, nil
}

// Replies returns the direct replies to a review
func (r *ReviewRepository) Replies(ctx context.Context, parentID uint) ([]database.Review, error) {
	var out []database.Review
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate("list_replies", "review", parentID, err)
	}
	return out, nil
}

// Delete removes a review. Its replies are kept and become top-level.
func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.Review{}).Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&database.Review{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return cerrors.NotFound("delete_review", "review", id)
		}
		return nil
	})
	return translate("delete_review", "review", id, err)
}
