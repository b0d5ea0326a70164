// Package service implements the catalog business rules on top of the
// repositories: field validation, slug uniqueness, reference checks and
// assembly of the public movie and actor pages.
package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviecatalog/internal/database"
	"github.com/mantonx/moviecatalog/internal/logger"
	"github.com/mantonx/moviecatalog/internal/modules/catalogmodule/core/repository"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"github.com/mantonx/moviecatalog/internal/storage"
	"gorm.io/gorm"
)

// Options tunes listing and upload limits
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxUploadSize   int64
}

// UploadDirs maps an upload kind to its directory in the media store
var UploadDirs = map[string]string{
	"actors":      database.UploadDirActors,
	"movies":      database.UploadDirMovies,
	"movie_shots": database.UploadDirMovieShots,
}

// CatalogService is the entry point for every catalog operation
type CatalogService struct {
	db    *gorm.DB
	repos *repository.Repositories
	store storage.Store
	opts  Options
	log   hclog.Logger
}

// NewCatalogService wires the service to a database and an image store
func NewCatalogService(db *gorm.DB, store storage.Store, opts Options) *CatalogService {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	return &CatalogService{
		db:    db,
		repos: repository.New(db),
		store: store,
		opts:  opts,
		log:   logger.Named("catalog"),
	}
}

// Ping checks that the database answers
func (s *CatalogService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func validate(op string, record interface{}) error {
	err := database.Validate(record)
	if err == nil {
		return nil
	}
	var verrs database.ValidationErrors
	if errors.As(err, &verrs) {
		return cerrors.Validation(op, cerrors.ErrInvalidInput).WithFields(verrs.Fields())
	}
	return cerrors.Validation(op, err)
}

func (s *CatalogService) pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.opts.DefaultPageSize
	}
	if limit > s.opts.MaxPageSize {
		limit = s.opts.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *CatalogService) mediaURL(p string) string {
	if s.store == nil || p == "" {
		return ""
	}
	return s.store.URL(p)
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (s *CatalogService) ListCategories(ctx context.Context) ([]database.Category, error) {
	return s.repos.Categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*database.Category, error) {
	return s.repos.Categories.GetByID(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*database.Category, error) {
	c := &database.Category{Name: strings.TrimSpace(in.Name), Description: in.Description, URL: in.URL}
	if err := s.checkCategory(ctx, "create_category", c); err != nil {
		return nil, err
	}
	if err := s.repos.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("category created", "id", c.ID, "url", c.URL)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*database.Category, error) {
	c, err := s.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Description, c.URL = strings.TrimSpace(in.Name), in.Description, in.URL
	if err := s.checkCategory(ctx, "update_category", c); err != nil {
		return nil, err
	}
	if err := s.repos.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) checkCategory(ctx context.Context, op string, c *database.Category) error {
	if err := validate(op, c); err != nil {
		return err
	}
	taken, err := s.repos.Categories.URLTaken(ctx, c.URL, c.ID)
	if err != nil {
		return err
	}
	if taken {
		return cerrors.Conflict(op, "category", "url", c.URL)
	}
	return nil
}

// DeleteCategory removes a category; its movies become uncategorized
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.repos.Categories.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("category deleted", "id", id)
	return nil
}

// =============================================================================
// GENRES
// =============================================================================

func (s *CatalogService) ListGenres(ctx context.Context) ([]database.Genre, error) {
	return s.repos.Genres.List(ctx)
}

func (s *CatalogService) GetGenre(ctx context.Context, id uint) (*database.Genre, error) {
	return s.repos.Genres.GetByID(ctx, id)
}

func (s *CatalogService) CreateGenre(ctx context.Context, in GenreInput) (*database.Genre, error) {
	g := &database.Genre{Name: strings.TrimSpace(in.Name), Description: in.Description, URL: in.URL}
	if err := s.checkGenre(ctx, "create_genre", g); err != nil {
		return nil, err
	}
	if err := s.repos.Genres.Create(ctx, g); err != nil {
		return nil, err
	}
	s.log.Info("genre created", "id", g.ID, "url", g.URL)
	return g, nil
}

func (s *CatalogService) UpdateGenre(ctx context.Context, id uint, in GenreInput) (*database.Genre, error) {
	g, err := s.repos.Genres.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Name, g.Description, g.URL = strings.TrimSpace(in.Name), in.Description, in.URL
	if err := s.checkGenre(ctx, "update_genre", g); err != nil {
		return nil, err
	}
	if err := s.repos.Genres.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *CatalogService) checkGenre(ctx context.Context, op string, g *database.Genre) error {
	if err := validate(op, g); err != nil {
		return err
	}
	taken, err := s.repos.Genres.URLTaken(ctx, g.URL, g.ID)
	if err != nil {
		return err
	}
	if taken {
		return cerrors.Conflict(op, "genre", "url", g.URL)
	}
	return nil
}

// DeleteGenre removes a genre and unlinks it from its movies
func (s *CatalogService) DeleteGenre(ctx context.Context, id uint) error {
	if err := s.repos.Genres.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("genre deleted", "id", id)
	return nil
}

// =============================================================================
// ACTORS
// =============================================================================

func (s *CatalogService) ListActors(ctx context.Context) ([]database.Actor, error) {
	return s.repos.Actors.List(ctx)
}

func (s *CatalogService) GetActor(ctx context.Context, id uint) (*database.Actor, error) {
	return s.repos.Actors.GetByID(ctx, id)
}

func (s *CatalogService) CreateActor(ctx context.Context, in ActorInput) (*database.Actor, error) {
	a := &database.Actor{Name: strings.TrimSpace(in.Name), Age: in.Age, Description: in.Description, Image: in.Image}
	if err := validate("create_actor", a); err != nil {
		return nil, err
	}
	if err := s.repos.Actors.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("actor created", "id", a.ID, "name", a.Name)
	return a, nil
}

func (s *CatalogService) UpdateActor(ctx context.Context, id uint, in ActorInput) (*database.Actor, error) {
	a, err := s.repos.Actors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Name, a.Age, a.Description, a.Image = strings.TrimSpace(in.Name), in.Age, in.Description, in.Image
	if err := validate("update_actor", a); err != nil {
		return nil, err
	}
	if err := s.repos.Actors.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteActor removes an actor and every credit naming them
func (s *CatalogService) DeleteActor(ctx context.Context, id uint) error {
	if err := s.repos.Actors.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("actor deleted", "id", id)
	return nil
}

// ActorDetail assembles the public page of the actor with the given name
func (s *CatalogService) ActorDetail(ctx context.Context, name string) (*ActorDetail, error) {
	a, err := s.repos.Actors.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	directed, err := s.repos.Actors.MoviesDirected(ctx, a.ID, false)
	if err != nil {
		return nil, err
	}
	acted, err := s.repos.Actors.MoviesActed(ctx, a.ID, false)
	if err != nil {
		return nil, err
	}
	return &ActorDetail{
		Actor:       *a,
		AbsoluteURL: a.AbsoluteURL(),
		ImageURL:    s.mediaURL(a.Image),
		Directed:    s.summaries(directed),
		ActedIn:     s.summaries(acted),
	}, nil
}

// =============================================================================
// MOVIES
// =============================================================================

func (s *CatalogService) summaries(movies []database.Movie) []MovieSummary {
	out := make([]MovieSummary, len(movies))
	for i, m := range movies {
		out[i] = MovieSummary{
			ID:          m.ID,
			Title:       m.Title,
			Tagline:     m.Tagline,
			Year:        m.Year,
			Country:     m.Country,
			URL:         m.URL,
			Draft:       m.Draft,
			Poster:      m.Poster,
			PosterURL:   s.mediaURL(m.Poster),
			AbsoluteURL: m.AbsoluteURL(),
		}
	}
	return out
}

// ListMovies returns a page of published movies
func (s *CatalogService) ListMovies(ctx context.Context, q MovieQuery) (*Page[MovieSummary], error) {
	return s.listMovies(ctx, q, false)
}

// ListAllMovies returns a page of movies including drafts
func (s *CatalogService) ListAllMovies(ctx context.Context, q MovieQuery) (*Page[MovieSummary], error) {
	return s.listMovies(ctx, q, true)
}

func (s *CatalogService) listMovies(ctx context.Context, q MovieQuery, includeDrafts bool) (*Page[MovieSummary], error) {
	limit, offset := s.pageBounds(q.Limit, q.Offset)
	filter := repository.MovieFilter{
		GenreURLs:     q.GenreURLs,
		Years:         q.Years,
		Query:         q.Query,
		IncludeDrafts: includeDrafts,
		Limit:         limit,
		Offset:        offset,
	}
	if q.CategoryURL != "" {
		c, err := s.repos.Categories.GetByURL(ctx, q.CategoryURL)
		if cerrors.IsNotFound(err) {
			return &Page[MovieSummary]{Items: []MovieSummary{}, Limit: limit, Offset: offset}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &c.ID
	}

	movies, total, err := s.repos.Movies.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &Page[MovieSummary]{Items: s.summaries(movies), Total: total, Limit: limit, Offset: offset}, nil
}

// Years returns the release years that have published movies
func (s *CatalogService) Years(ctx context.Context) ([]uint16, error) {
	return s.repos.Movies.Years(ctx)
}

func (s *CatalogService) GetMovie(ctx context.Context, id uint) (*database.Movie, error) {
	return s.repos.Movies.GetByID(ctx, id)
}

// CreateMovie stores a movie and its credits in one transaction
func (s *CatalogService) CreateMovie(ctx context.Context, in MovieInput) (*database.Movie, error) {
	m := &database.Movie{}
	applyMovieInput(m, in)
	if err := s.checkMovie(ctx, "create_movie", m); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := repository.New(tx)
		if err := repos.Movies.Create(ctx, m); err != nil {
			return err
		}
		return setCredits(ctx, repos, m.ID, in)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("movie created", "id", m.ID, "url", m.URL, "draft", m.Draft)
	return m, nil
}

// UpdateMovie replaces the editable fields of a movie. A zero premiere date
// keeps the stored one.
func (s *CatalogService) UpdateMovie(ctx context.Context, id uint, in MovieInput) (*database.Movie, error) {
	m, err := s.repos.Movies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	premiere := m.WorldPremiere
	applyMovieInput(m, in)
	if m.WorldPremiere.IsZero() {
		m.WorldPremiere = premiere
	}
	if err := s.checkMovie(ctx, "update_movie", m); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := repository.New(tx)
		if err := repos.Movies.Update(ctx, m); err != nil {
			return err
		}
		return setCredits(ctx, repos, m.ID, in)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func applyMovieInput(m *database.Movie, in MovieInput) {
	m.Title = strings.TrimSpace(in.Title)
	m.Tagline = in.Tagline
	m.Description = in.Description
	m.Poster = in.Poster
	m.Year = in.Year
	if m.Year == 0 {
		m.Year = database.DefaultMovieYear
	}
	m.Country = in.Country
	m.WorldPremiere = in.WorldPremiere
	m.Budget = in.Budget
	m.FeesInUSA = in.FeesInUSA
	m.FeesInWorld = in.FeesInWorld
	m.CategoryID = in.CategoryID
	m.URL = in.URL
	m.Draft = in.Draft
}

func setCredits(ctx context.Context, repos *repository.Repositories, movieID uint, in MovieInput) error {
	if in.DirectorIDs != nil {
		if err := repos.Movies.SetDirectors(ctx, movieID, in.DirectorIDs); err != nil {
			return err
		}
	}
	if in.ActorIDs != nil {
		if err := repos.Movies.SetActors(ctx, movieID, in.ActorIDs); err != nil {
			return err
		}
	}
	if in.GenreIDs != nil {
		if err := repos.Movies.SetGenres(ctx, movieID, in.GenreIDs); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) checkMovie(ctx context.Context, op string, m *database.Movie) error {
	if err := validate(op, m); err != nil {
		return err
	}
	taken, err := s.repos.Movies.URLTaken(ctx, m.URL, m.ID)
	if err != nil {
		return err
	}
	if taken {
		return cerrors.Conflict(op, "movie", "url", m.URL)
	}
	if m.CategoryID != nil {
		if _, err := s.repos.Categories.GetByID(ctx, *m.CategoryID); err != nil {
			if cerrors.IsNotFound(err) {
				return cerrors.Reference(op, "category_id", "category does not exist")
			}
			return err
		}
	}
	return nil
}

// SetMovieDirectors replaces the director credits of a movie
func (s *CatalogService) SetMovieDirectors(ctx context.Context, movieID uint, ids []uint) ([]database.Actor, error) {
	if err := s.repos.Movies.SetDirectors(ctx, movieID, ids); err != nil {
		return nil, err
	}
	return s.repos.Movies.Directors(ctx, movieID)
}

// SetMovieActors replaces the cast of a movie
func (s *CatalogService) SetMovieActors(ctx context.Context, movieID uint, ids []uint) ([]database.Actor, error) {
	if err := s.repos.Movies.SetActors(ctx, movieID, ids); err != nil {
		return nil, err
	}
	return s.repos.Movies.Actors(ctx, movieID)
}

// SetMovieGenres replaces the genres of a movie
func (s *CatalogService) SetMovieGenres(ctx context.Context, movieID uint, ids []uint) ([]database.Genre, error) {
	if err := s.repos.Movies.SetGenres(ctx, movieID, ids); err != nil {
		return nil, err
	}
	return s.repos.Movies.Genres(ctx, movieID)
}

// DeleteMovie removes a movie with its shots, ratings, reviews and credits
func (s *CatalogService) DeleteMovie(ctx context.Context, id uint) error {
	if err := s.repos.Movies.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("movie deleted", "id", id)
	return nil
}

// publishedMovie looks a movie up by slug, hiding drafts
func (s *CatalogService) publishedMovie(ctx context.Context, op, slug string) (*database.Movie, error) {
	m, err := s.repos.Movies.GetByURL(ctx, slug)
	if err != nil {
		return nil, err
	}
	if m.Draft {
		return nil, cerrors.NotFound(op, "movie", slug)
	}
	return m, nil
}

// MovieDetail assembles the public page of a published movie
func (s *CatalogService) MovieDetail(ctx context.Context, slug string) (*MovieDetail, error) {
	m, err := s.publishedMovie(ctx, "movie_detail", slug)
	if err != nil {
		return nil, err
	}

	detail := &MovieDetail{
		Movie:       *m,
		AbsoluteURL: m.AbsoluteURL(),
		PosterURL:   s.mediaURL(m.Poster),
	}

	if m.CategoryID != nil {
		c, err := s.repos.Categories.GetByID(ctx, *m.CategoryID)
		switch {
		case err == nil:
			detail.Category = c
		case !cerrors.IsNotFound(err):
			return nil, err
		}
	}

	directors, err := s.repos.Movies.Directors(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	actors, err := s.repos.Movies.Actors(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	detail.Directors = s.actorSummaries(directors)
	detail.Actors = s.actorSummaries(actors)

	if detail.Genres, err = s.repos.Movies.Genres(ctx, m.ID); err != nil {
		return nil, err
	}

	shots, err := s.repos.Shots.ListByMovie(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	detail.Shots = make([]ShotView, len(shots))
	for i, shot := range shots {
		detail.Shots[i] = ShotView{MovieShot: shot, ImageURL: s.mediaURL(shot.Image)}
	}

	if detail.Reviews, err = s.reviewThreads(ctx, m.ID); err != nil {
		return nil, err
	}

	if detail.Rating, err = s.repos.Ratings.Average(ctx, m.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *CatalogService) actorSummaries(actors []database.Actor) []ActorSummary {
	out := make([]ActorSummary, len(actors))
	for i, a := range actors {
		out[i] = ActorSummary{ID: a.ID, Name: a.Name, ImageURL: s.mediaURL(a.Image), AbsoluteURL: a.AbsoluteURL()}
	}
	return out
}

// reviewThreads returns the movie's top-level reviews with their replies
// nested below them.
func (s *CatalogService) reviewThreads(ctx context.Context, movieID uint) ([]ReviewThread, error) {
	top, err := s.repos.Reviews.TopLevel(ctx, movieID)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewThread, 0, len(top))
	for _, r := range top {
		t, err := s.thread(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *CatalogService) thread(ctx context.Context, r database.Review) (ReviewThread, error) {
	t := ReviewThread{ID: r.ID, Name: r.Name, Text: r.Text, CreatedAt: r.CreatedAt, Replies: []ReviewThread{}}
	replies, err := s.repos.Reviews.Replies(ctx, r.ID)
	if err != nil {
		return ReviewThread{}, err
	}
	for _, reply := range replies {
		child, err := s.thread(ctx, reply)
		if err != nil {
			return ReviewThread{}, err
		}
		t.Replies = append(t.Replies, child)
	}
	return t, nil
}

// TopLevelReviews returns the threads shown under a published movie
func (s *CatalogService) TopLevelReviews(ctx context.Context, slug string) ([]ReviewThread, error) {
	m, err := s.publishedMovie(ctx, "list_top_level_reviews", slug)
	if err != nil {
		return nil, err
	}
	return s.reviewThreads(ctx, m.ID)
}

// =============================================================================
// MOVIE SHOTS
// =============================================================================

func (s *CatalogService) ListShots(ctx context.Context, movieID uint) ([]database.MovieShot, error) {
	if _, err := s.repos.Movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	return s.repos.Shots.ListByMovie(ctx, movieID)
}

func (s *CatalogService) GetShot(ctx context.Context, id uint) (*database.MovieShot, error) {
	return s.repos.Shots.GetByID(ctx, id)
}

func (s *CatalogService) CreateShot(ctx context.Context, in MovieShotInput) (*database.MovieShot, error) {
	shot := &database.MovieShot{Title: strings.TrimSpace(in.Title), Description: in.Description, Image: in.Image, MovieID: in.MovieID}
	if err := s.checkShot(ctx, "create_movie_shot", shot); err != nil {
		return nil, err
	}
	if err := s.repos.Shots.Create(ctx, shot); err != nil {
		return nil, err
	}
	return shot, nil
}

func (s *CatalogService) UpdateShot(ctx context.Context, id uint, in MovieShotInput) (*database.MovieShot, error) {
	shot, err := s.repos.Shots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	shot.Title, shot.Description, shot.Image, shot.MovieID = strings.TrimSpace(in.Title), in.Description, in.Image, in.MovieID
	if err := s.checkShot(ctx, "update_movie_shot", shot); err != nil {
		return nil, err
	}
	if err := s.repos.Shots.Update(ctx, shot); err != nil {
		return nil, err
	}
	return shot, nil
}

func (s *CatalogService) checkShot(ctx context.Context, op string, shot *database.MovieShot) error {
	if err := validate(op, shot); err != nil {
		return err
	}
	if _, err := s.repos.Movies.GetByID(ctx, shot.MovieID); err != nil {
		if cerrors.IsNotFound(err) {
			return cerrors.Reference(op, "movie_id", "movie does not exist")
		}
		return err
	}
	return nil
}

func (s *CatalogService) DeleteShot(ctx context.Context, id uint) error {
	return s.repos.Shots.Delete(ctx, id)
}

// =============================================================================
// RATINGS
// =============================================================================

// ListRatingStars returns the rating scale, highest value first
func (s *CatalogService) ListRatingStars(ctx context.Context) ([]database.RatingStar, error) {
	return s.repos.RatingStars.List(ctx)
}

func (s *CatalogService) GetRatingStar(ctx context.Context, id uint) (*database.RatingStar, error) {
	return s.repos.RatingStars.GetByID(ctx, id)
}

func (s *CatalogService) CreateRatingStar(ctx context.Context, value int16) (*database.RatingStar, error) {
	star := &database.RatingStar{Value: value}
	if err := s.repos.RatingStars.Create(ctx, star); err != nil {
		return nil, err
	}
	return star, nil
}

func (s *CatalogService) UpdateRatingStar(ctx context.Context, id uint, value int16) (*database.RatingStar, error) {
	star, err := s.repos.RatingStars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	star.Value = value
	if err := s.repos.RatingStars.Update(ctx, star); err != nil {
		return nil, err
	}
	return star, nil
}

// DeleteRatingStar removes a star and every rating that used it
func (s *CatalogService) DeleteRatingStar(ctx context.Context, id uint) error {
	if err := s.repos.RatingStars.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("rating star deleted", "id", id)
	return nil
}

// SeedRatingStars creates the missing stars among values
func (s *CatalogService) SeedRatingStars(ctx context.Context, values ...int16) (int, error) {
	created, err := s.repos.RatingStars.Seed(ctx, values...)
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.log.Info("rating stars seeded", "created", created)
	}
	return created, nil
}

// RateMovie records the star an address gives a published movie. Rating the
// same movie again from the same address replaces the earlier star.
func (s *CatalogService) RateMovie(ctx context.Context, slug, ip string, starID uint) (*RatingResult, error) {
	const op = "rate_movie"
	m, err := s.publishedMovie(ctx, op, slug)
	if err != nil {
		return nil, err
	}
	rating := &database.Rating{IP: ip, StarID: starID, MovieID: m.ID}
	if err := validate(op, rating); err != nil {
		return nil, err
	}
	star, err := s.repos.RatingStars.GetByID(ctx, starID)
	if err != nil {
		if cerrors.IsNotFound(err) {
			return nil, cerrors.Reference(op, "star_id", "rating star does not exist")
		}
		return nil, err
	}

	created, err := s.repos.Ratings.Upsert(ctx, rating)
	if err != nil {
		return nil, err
	}
	s.log.Debug("movie rated", "movie", m.URL, "star", star.Value, "replaced", !created)
	return &RatingResult{Rating: *rating, Star: *star, Replaced: !created}, nil
}

// ListRatings returns a page of ratings, newest first
func (s *CatalogService) ListRatings(ctx context.Context, limit, offset int) (*Page[database.Rating], error) {
	limit, offset = s.pageBounds(limit, offset)
	items, total, err := s.repos.Ratings.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &Page[database.Rating]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *CatalogService) GetRating(ctx context.Context, id uint) (*database.Rating, error) {
	return s.repos.Ratings.GetByID(ctx, id)
}

// MovieRatings returns every rating of a movie, drafts included
func (s *CatalogService) MovieRatings(ctx context.Context, movieID uint) ([]database.Rating, error) {
	if _, err := s.repos.Movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	return s.repos.Ratings.ListByMovie(ctx, movieID)
}

func (s *CatalogService) DeleteRating(ctx context.Context, id uint) error {
	return s.repos.Ratings.Delete(ctx, id)
}

// =============================================================================
// REVIEWS
// =============================================================================

// AddReview stores a review of a published movie. A reply must answer a
// review of the same movie.
func (s *CatalogService) AddReview(ctx context.Context, slug string, in ReviewInput) (*database.Review, error) {
	const op = "add_review"
	m, err := s.publishedMovie(ctx, op, slug)
	if err != nil {
		return nil, err
	}
	review := &database.Review{
		Email:    strings.TrimSpace(in.Email),
		Name:     strings.TrimSpace(in.Name),
		Text:     in.Text,
		ParentID: in.ParentID,
		MovieID:  m.ID,
	}
	if review.ParentID != nil && *review.ParentID == 0 {
		review.ParentID = nil
	}
	if err := validate(op, review); err != nil {
		return nil, err
	}
	if review.ParentID != nil {
		parent, err := s.repos.Reviews.GetByID(ctx, *review.ParentID)
		if err != nil {
			if cerrors.IsNotFound(err) {
				return nil, cerrors.Reference(op, "parent_id", "parent review does not exist")
			}
			return nil, err
		}
		if parent.MovieID != m.ID {
			return nil, cerrors.Reference(op, "parent_id", "parent review belongs to another movie")
		}
	}

	if err := s.repos.Reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.log.Info("review added", "movie", m.URL, "id", review.ID, "reply", !review.IsTopLevel())
	return review, nil
}

// ListReviews returns a page of reviews, newest first
// MovieReviews returns every review of a movie in posting order, replies
// included, for moderation.
func (s *CatalogService) MovieReviews(ctx context.Context, movieID uint) ([]database.Review, error) {
	if _, err := s.repos.Movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	return s.repos.Reviews.ListByMovie(ctx, movieID)
}

func (s *CatalogService) ListReviews(ctx context.Context, limit, offset int) (*Page[database.Review], error) {
	limit, offset = s.pageBounds(limit, offset)
	items, total, err := s.repos.Reviews.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &Page[database.Review]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// DeleteReview removes a review; its replies become top-level
func (s *CatalogService) DeleteReview(ctx context.Context, id uint) error {
	if err := s.repos.Reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("review deleted", "id", id)
	return nil
}

// =============================================================================
// IMAGES
// =============================================================================

// SaveImage stores an uploaded image under the directory for kind
func (s *CatalogService) SaveImage(ctx context.Context, kind, filename string, r io.Reader, size int64, contentType string) (*ImageUpload, error) {
	const op = "save_image"
	dir, ok := UploadDirs[kind]
	if !ok {
		return nil, cerrors.Validation(op, cerrors.ErrUnsupportedUpload).WithField("kind")
	}
	if s.store == nil {
		return nil, cerrors.Storage(op, errors.New("no media store configured"))
	}
	if s.opts.MaxUploadSize > 0 && size > s.opts.MaxUploadSize {
		return nil, cerrors.Validation(op, cerrors.ErrUnsupportedUpload).
			WithFields(map[string]string{"file": "file is too large"})
	}

	p, err := s.store.Save(ctx, dir, filename, r, size, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, cerrors.Validation(op, err).WithFields(map[string]string{"file": err.Error()})
		}
		return nil, cerrors.Storage(op, err)
	}
	s.log.Info("image stored", "kind", kind, "path", p)
	return &ImageUpload{Path: p, URL: s.store.URL(p)}, nil
}

// Schema returns the admin metadata of every entity
func (s *CatalogService) Schema() []database.EntityMeta {
	return database.EntityMetas()
}
