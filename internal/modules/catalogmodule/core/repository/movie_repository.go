package repository

import (
	"context"
	"strings"

	"github.com/mantonx/moviecatalog/internal/database"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
)

// MovieFilter narrows a movie listing. Zero values do not filter.
type MovieFilter struct {
	GenreURLs     []string
	Years         []uint16
	CategoryID    *uint
	Query         string
	IncludeDrafts bool
	Limit         int
	Offset        int
}

// MovieRepository handles database operations for movies and their credits
type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Create(ctx context.Context, m *database.Movie) error {
	return translate("create_movie", "movie", m.URL, r.db.WithContext(ctx).Create(m).Error)
}

func (r *MovieRepository) Update(ctx context.Context, m *database.Movie) error {
	result := updateAll(r.db.WithContext(ctx), m)
	if result.Error != nil {
		return translate("update_movie", "movie", m.URL, result.Error)
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFound("update_movie", "movie", m.ID)
	}
	return nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id uint) (*database.Movie, error) {
	var m database.Movie
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate("get_movie", "movie", id, err)
	}
	return &m, nil
}

func (r *MovieRepository) GetByURL(ctx context.Context, url string) (*database.Movie, error) {
	var m database.Movie
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&m).Error; err != nil {
		return nil, translate("get_movie", "movie", url, err)
	}
	return &m, nil
}

// URLTaken reports whether another movie already uses url
func (r *MovieRepository) URLTaken(ctx context.Context, url string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&database.Movie{}).
		Where("url = ? AND id <> ?", url, excludeID).Count(&count).Error
	if err != nil {
		return false, translate("check_movie_url", "movie", url, err)
	}
	return count > 0, nil
}

// List returns one page of movies matching f, newest first, along with the
// total number of matches.
func (r *MovieRepository) List(ctx context.Context, f MovieFilter) ([]database.Movie, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&database.Movie{})

	if !f.IncludeDrafts {
		q = q.Where("draft = ?", false)
	}
	if len(f.GenreURLs) > 0 {
		sub := db.Model(&database.MovieGenre{}).
			Select("movie_genres.movie_id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("genres.url IN ?", f.GenreURLs)
		q = q.Where("id IN (?)", sub)
	}
	if len(f.Years) > 0 {
		q = q.Where("year IN ?", f.Years)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("list_movies", "movie", "", err)
	}

	page := q.Order("id DESC")
	if f.Limit > 0 {
		page = page.Limit(f.Limit)
	}
	if f.Offset > 0 {
		page = page.Offset(f.Offset)
	}

	var movies []database.Movie
	if err := page.Find(&movies).Error; err != nil {
		return nil, 0, translate("list_movies", "movie", "", err)
	}
	return movies, total, nil
}

// Years returns the distinct release years of published movies, newest first
func (r *MovieRepository) Years(ctx context.Context) ([]uint16, error) {
	var years []uint16
	err := r.db.WithContext(ctx).Model(&database.Movie{}).
		Where("draft = ?", false).
		Distinct().Order("year DESC").
		Pluck("year", &years).Error
	if err != nil {
		return nil, translate("list_years", "movie", "", err)
	}
	return years, nil
}

// Directors returns the actors credited as director, by name
func (r *MovieRepository) Directors(ctx context.Context, movieID uint) ([]database.Actor, error) {
	return r.credits(ctx, "movie_directors", movieID)
}

// Actors returns the credited cast, by name
func (r *MovieRepository) Actors(ctx context.Context, movieID uint) ([]database.Actor, error) {
	return r.credits(ctx, "movie_actors", movieID)
}

func (r *MovieRepository) credits(ctx context.Context, table string, movieID uint) ([]database.Actor, error) {
	var out []database.Actor
	err := r.db.WithContext(ctx).
		Joins("JOIN "+table+" ON "+table+".actor_id = actors.id").
		Where(table+".movie_id = ?", movieID).
		Order("actors.name ASC, actors.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list_credits", "movie", movieID, err)
	}
	return out, nil
}

// Genres returns the movie's genres, by name
func (r *MovieRepository) Genres(ctx context.Context, movieID uint) ([]database.Genre, error) {
	var out []database.Genre
	err := r.db.WithContext(ctx).
		Joins("JOIN movie_genres ON movie_genres.genre_id = genres.id").
		Where("movie_genres.movie_id = ?", movieID).
		Order("genres.name ASC, genres.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list_movie_genres", "movie", movieID, err)
	}
	return out, nil
}

// SetDirectors replaces the movie's director credits
func (r *MovieRepository) SetDirectors(ctx context.Context, movieID uint, actorIDs []uint) error {
	ids := uniqueIDs(actorIDs)
	rows := make([]database.MovieDirector, len(ids))
	for i, id := range ids {
		rows[i] = database.MovieDirector{MovieID: movieID, ActorID: id}
	}
	return r.replaceLinks(ctx, "set_directors", movieID, &database.MovieDirector{}, &rows,
		&database.Actor{}, ids, "director_ids")
}

// SetActors replaces the movie's cast credits
func (r *MovieRepository) SetActors(ctx context.Context, movieID uint, actorIDs []uint) error {
	ids := uniqueIDs(actorIDs)
	rows := make([]database.MovieActor, len(ids))
	for i, id := range ids {
		rows[i] = database.MovieActor{MovieID: movieID, ActorID: id}
	}
	return r.replaceLinks(ctx, "set_actors", movieID, &database.MovieActor{}, &rows,
		&database.Actor{}, ids, "actor_ids")
}

// SetGenres replaces the movie's genres
func (r *MovieRepository) SetGenres(ctx context.Context, movieID uint, genreIDs []uint) error {
	ids := uniqueIDs(genreIDs)
	rows := make([]database.MovieGenre, len(ids))
	for i, id := range ids {
		rows[i] = database.MovieGenre{MovieID: movieID, GenreID: id}
	}
	return r.replaceLinks(ctx, "set_genres", movieID, &database.MovieGenre{}, &rows,
		&database.Genre{}, ids, "genre_ids")
}

// replaceLinks swaps every join row of movieID for rows after checking that
// the movie and every linked record exist.
func (r *MovieRepository) replaceLinks(ctx context.Context, op string, movieID uint, link interface{}, rows interface{},
	target interface{}, ids []uint, field string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.Movie{}).Where("id = ?", movieID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return cerrors.NotFound(op, "movie", movieID)
		}

		ok, err := countMatches(tx, target, ids)
		if err != nil {
			return err
		}
		if !ok {
			return cerrors.Reference(op, field, "unknown id in list")
		}

		if err := tx.Where("movie_id = ?", movieID).Delete(link).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Create(rows).Error
	})
	return translate(op, "movie", movieID, err)
}

// Delete removes a movie together with its shots, ratings, reviews and credits
func (r *MovieRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&database.MovieShot{},
			&database.Rating{},
			&database.Review{},
			&database.MovieDirector{},
			&database.MovieActor{},
			&database.MovieGenre{},
		}
		for _, model := range dependents {
			if err := tx.Where("movie_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&database.Movie{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return cerrors.NotFound("delete_movie", "movie", id)
		}
		return nil
	})
	return translate("delete_movie", "movie", id, err)
}
