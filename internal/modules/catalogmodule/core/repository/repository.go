// Package repository provides the data access layer for the movie catalog.
//
// Each repository wraps a *gorm.DB and scopes every query to the caller's
// context. Deletions that must clean up dependent rows run in a single
// transaction so that no reference is left pointing at a removed record.
package repository

import (
	"errors"

	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories bundles one repository per catalog entity
type Repositories struct {
	Categories  *CategoryRepository
	Actors      *ActorRepository
	Genres      *GenreRepository
	Movies      *MovieRepository
	Shots       *MovieShotRepository
	RatingStars *RatingStarRepository
	Ratings     *RatingRepository
	Reviews     *ReviewRepository
}

// New builds every repository on the same connection
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Categories:  NewCategoryRepository(db),
		Actors:      NewActorRepository(db),
		Genres:      NewGenreRepository(db),
		Movies:      NewMovieRepository(db),
		Shots:       NewMovieShotRepository(db),
		RatingStars: NewRatingStarRepository(db),
		Ratings:     NewRatingRepository(db),
		Reviews:     NewReviewRepository(db),
	}
}

// translate maps gorm errors onto catalog errors. CatalogErrors raised
// inside a transaction pass through unchanged.
func translate(op, entity string, key interface{}, err error) error {
	if err == nil {
		return nil
	}
	var cErr *cerrors.CatalogError
	if errors.As(err, &cErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return cerrors.NotFound(op, entity, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return cerrors.Conflict(op, entity, "url", key)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return cerrors.Reference(op, entity, "referenced record does not exist")
	default:
		return cerrors.Database(op, err)
	}
}

// updateAll writes every column of rec except the primary key, creation
// time and associations. It fails with not found when no row matches rec's ID.
func updateAll(tx *gorm.DB, rec interface{}) *gorm.DB {
	return tx.Model(rec).Select("*").Omit("id", "created_at", clause.Associations).Updates(rec)
}

// uniqueIDs drops zero and duplicate IDs, keeping the first occurrence.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
