package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mantonx/moviecatalog/internal/database"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"github.com/mantonx/moviecatalog/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, dir, filename string, r io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, dir, filename, r, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	args := m.Called(ctx, p)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, p string) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) URL(p string) string {
	return m.Called(p).String(0)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) *CatalogService {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)
	return NewCatalogService(setupTestDB(t), store, Options{DefaultPageSize: 2, MaxPageSize: 3, MaxUploadSize: 1024})
}

func movieInput(slug string) MovieInput {
	return MovieInput{
		Title:       "Movie " + slug,
		Description: "about " + slug,
		Poster:      "movies/" + slug + ".jpg",
		Country:     "USA",
		URL:         slug,
	}
}

func mustMovie(t *testing.T, s *CatalogService, in MovieInput) *database.Movie {
	t.Helper()
	m, err := s.CreateMovie(context.Background(), in)
	require.NoError(t, err)
	return m
}

func mustActor(t *testing.T, s *CatalogService, name string) *database.Actor {
	t.Helper()
	a, err := s.CreateActor(context.Background(), ActorInput{Name: name, Age: 40, Description: "bio", Image: "actors/x.png"})
	require.NoError(t, err)
	return a
}

func TestCreateCategoryValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateCategory(ctx, CategoryInput{Name: "", Description: "d", URL: "bad slug"})
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrorTypeValidation, cerrors.GetType(err))

	var cErr *cerrors.CatalogError
	require.True(t, errors.As(err, &cErr))
	assert.Contains(t, cErr.Fields, "name")
	assert.Contains(t, cErr.Fields, "url")
}

func TestCategorySlugConflict(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	first, err := s.CreateCategory(ctx, CategoryInput{Name: "Films", Description: "d", URL: "films"})
	require.NoError(t, err)

	_, err = s.CreateCategory(ctx, CategoryInput{Name: "Other", Description: "d", URL: "films"})
	assert.Equal(t, cerrors.ErrorTypeConflict, cerrors.GetType(err))
	assert.ErrorIs(t, err, cerrors.ErrURLTaken)

	// keeping its own slug is not a conflict
	updated, err := s.UpdateCategory(ctx, first.ID, CategoryInput{Name: "Feature films", Description: "d", URL: "films"})
	require.NoError(t, err)
	assert.Equal(t, "Feature films", updated.Name)
}

func TestGenreLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	g, err := s.CreateGenre(ctx, GenreInput{Name: "Drama", Description: "d", URL: "drama"})
	require.NoError(t, err)

	m := mustMovie(t, s, func() MovieInput {
		in := movieInput("heat")
		in.GenreIDs = []uint{g.ID}
		return in
	}())

	require.NoError(t, s.DeleteGenre(ctx, g.ID))
	detail, err := s.MovieDetail(ctx, m.URL)
	require.NoError(t, err)
	assert.Empty(t, detail.Genres)

	err = s.DeleteGenre(ctx, g.ID)
	assert.True(t, cerrors.IsNotFound(err))
}

func TestCreateMovieDefaultsAndCredits(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	director := mustActor(t, s, "Michael Mann")
	lead := mustActor(t, s, "Al Pacino")

	in := movieInput("heat")
	in.DirectorIDs = []uint{director.ID}
	in.ActorIDs = []uint{lead.ID, lead.ID}
	m := mustMovie(t, s, in)

	assert.Equal(t, database.DefaultMovieYear, m.Year)
	assert.False(t, m.WorldPremiere.IsZero())
	assert.Equal(t, "/movie/heat/", m.AbsoluteURL())

	detail, err := s.MovieDetail(ctx, "heat")
	require.NoError(t, err)
	require.Len(t, detail.Directors, 1)
	assert.Equal(t, "Michael Mann", detail.Directors[0].Name)
	require.Len(t, detail.Actors, 1)
	assert.Equal(t, "/media/movies/heat.jpg", detail.PosterURL)
	assert.Equal(t, "/media/actors/x.png", detail.Actors[0].ImageURL)
}

func TestCreateMovieRollsBackOnBadReference(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	in := movieInput("heat")
	in.ActorIDs = []uint{99}
	_, err := s.CreateMovie(ctx, in)
	assert.Equal(t, cerrors.ErrorTypeReference, cerrors.GetType(err))

	_, err = s.MovieDetail(ctx, "heat")
	assert.True(t, cerrors.IsNotFound(err))
}

func TestCreateMovieUnknownCategory(t *testing.T) {
	s := newTestService(t)
	missing := uint(42)
	in := movieInput("heat")
	in.CategoryID = &missing

	_, err := s.CreateMovie(context.Background(), in)
	assert.Equal(t, cerrors.ErrorTypeReference, cerrors.GetType(err))
}

func TestUpdateMovieKeepsCreditsWhenOmitted(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	lead := mustActor(t, s, "Val Kilmer")
	in := movieInput("heat")
	in.ActorIDs = []uint{lead.ID}
	in.WorldPremiere = database.NewDate(database.Now().AddDate(-20, 0, 0))
	m := mustMovie(t, s, in)

	update := movieInput("heat")
	update.Title = "Heat (1995)"
	updated, err := s.UpdateMovie(ctx, m.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Heat (1995)", updated.Title)
	assert.Equal(t, in.WorldPremiere.String(), updated.WorldPremiere.String())

	detail, err := s.MovieDetail(ctx, "heat")
	require.NoError(t, err)
	assert.Len(t, detail.Actors, 1)

	update.ActorIDs = []uint{}
	_, err = s.UpdateMovie(ctx, m.ID, update)
	require.NoError(t, err)
	detail, err = s.MovieDetail(ctx, "heat")
	require.NoError(t, err)
	assert.Empty(t, detail.Actors)
}

func TestDraftsAreHiddenFromPublicViews(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	lead := mustActor(t, s, "Robert De Niro")
	draft := movieInput("unfinished")
	draft.Draft = true
	draft.ActorIDs = []uint{lead.ID}
	mustMovie(t, s, draft)

	published := movieInput("heat")
	published.ActorIDs = []uint{lead.ID}
	mustMovie(t, s, published)

	_, err := s.MovieDetail(ctx, "unfinished")
	assert.True(t, cerrors.IsNotFound(err))

	_, err = s.AddReview(ctx, "unfinished", ReviewInput{Email: "a@b.io", Name: "Ann", Text: "hm"})
	assert.True(t, cerrors.IsNotFound(err))

	page, err := s.ListMovies(ctx, MovieQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	all, err := s.ListAllMovies(ctx, MovieQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	actor, err := s.ActorDetail(ctx, "Robert De Niro")
	require.NoError(t, err)
	require.Len(t, actor.ActedIn, 1)
	assert.Equal(t, "heat", actor.ActedIn[0].URL)
	assert.Equal(t, "/actor/Robert%20De%20Niro/", actor.AbsoluteURL)
}

func TestListMoviesPagingAndCategory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, CategoryInput{Name: "Films", Description: "d", URL: "films"})
	require.NoError(t, err)
	for _, slug := range []string{"a", "b", "c", "d"} {
		in := movieInput(slug)
		if slug != "d" {
			in.CategoryID = &c.ID
		}
		mustMovie(t, s, in)
	}

	page, err := s.ListMovies(ctx, MovieQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Limit)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 4, page.Total)

	page, err = s.ListMovies(ctx, MovieQuery{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Limit)

	page, err = s.ListMovies(ctx, MovieQuery{CategoryURL: "films", Limit: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	page, err = s.ListMovies(ctx, MovieQuery{CategoryURL: "missing"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestRateMovieReplacesEarlierStar(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.SeedRatingStars(ctx, 1, 2, 3, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, created)
	stars, err := s.ListRatingStars(ctx)
	require.NoError(t, err)
	require.Len(t, stars, 5)
	assert.EqualValues(t, 5, stars[0].Value)

	mustMovie(t, s, movieInput("heat"))

	first, err := s.RateMovie(ctx, "heat", "10.0.0.1", stars[0].ID)
	require.NoError(t, err)
	assert.False(t, first.Replaced)

	second, err := s.RateMovie(ctx, "heat", "10.0.0.1", stars[4].ID)
	require.NoError(t, err)
	assert.True(t, second.Replaced)
	assert.Equal(t, first.Rating.ID, second.Rating.ID)

	_, err = s.RateMovie(ctx, "heat", "10.0.0.2", stars[0].ID)
	require.NoError(t, err)

	detail, err := s.MovieDetail(ctx, "heat")
	require.NoError(t, err)
	assert.EqualValues(t, 2, detail.Rating.Count)
	assert.InDelta(t, 3.0, detail.Rating.Average, 0.001)

	ratings, err := s.ListRatings(ctx, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ratings.Total)

	perMovie, err := s.MovieRatings(ctx, detail.ID)
	require.NoError(t, err)
	require.Len(t, perMovie, 2)
	assert.Equal(t, stars[4].ID, perMovie[0].StarID)

	got, err := s.GetRating(ctx, first.Rating.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", got.IP)

	_, err = s.MovieRatings(ctx, 9999)
	assert.True(t, cerrors.IsNotFound(err))
}

func TestRateMovieRejectsBadInput(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	mustMovie(t, s, movieInput("heat"))
	star, err := s.CreateRatingStar(ctx, 5)
	require.NoError(t, err)

	_, err = s.RateMovie(ctx, "heat", "not-an-ip", star.ID)
	assert.Equal(t, cerrors.ErrorTypeValidation, cerrors.GetType(err))

	_, err = s.RateMovie(ctx, "heat", "10.0.0.1", star.ID+10)
	assert.Equal(t, cerrors.ErrorTypeReference, cerrors.GetType(err))

	_, err = s.RateMovie(ctx, "nope", "10.0.0.1", star.ID)
	assert.True(t, cerrors.IsNotFound(err))
}

func TestReviewThreads(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	mustMovie(t, s, movieInput("heat"))
	mustMovie(t, s, movieInput("ronin"))

	root, err := s.AddReview(ctx, "heat", ReviewInput{Email: "ann@example.com", Name: "Ann", Text: "Great"})
	require.NoError(t, err)
	reply, err := s.AddReview(ctx, "heat", ReviewInput{Email: "bob@example.com", Name: "Bob", Text: "Agreed", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = s.AddReview(ctx, "heat", ReviewInput{Email: "cy@example.com", Name: "Cy", Text: "Me too", ParentID: &reply.ID})
	require.NoError(t, err)

	_, err = s.AddReview(ctx, "ronin", ReviewInput{Email: "d@example.com", Name: "Dee", Text: "x", ParentID: &root.ID})
	assert.Equal(t, cerrors.ErrorTypeReference, cerrors.GetType(err))

	_, err = s.AddReview(ctx, "heat", ReviewInput{Email: "bad", Name: "Eve", Text: "x"})
	assert.Equal(t, cerrors.ErrorTypeValidation, cerrors.GetType(err))

	detail, err := s.MovieDetail(ctx, "heat")
	require.NoError(t, err)
	require.Len(t, detail.Reviews, 1)
	require.Len(t, detail.Reviews[0].Replies, 1)
	assert.Equal(t, "Bob", detail.Reviews[0].Replies[0].Name)
	require.Len(t, detail.Reviews[0].Replies[0].Replies, 1)

	threads, err := s.TopLevelReviews(ctx, "heat")
	require.NoError(t, err)
	assert.Equal(t, detail.Reviews, threads)

	all, err := s.MovieReviews(ctx, detail.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.DeleteReview(ctx, root.ID))
	detail, err = s.MovieDetail(ctx, "heat")
	require.NoError(t, err)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, reply.ID, detail.Reviews[0].ID)
}

func TestTopLevelReviewsHidesDrafts(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	in := movieInput("hidden")
	in.Draft = true
	mustMovie(t, s, in)

	_, err := s.TopLevelReviews(ctx, "hidden")
	assert.True(t, cerrors.IsNotFound(err))

	mustMovie(t, s, movieInput("heat"))
	threads, err := s.TopLevelReviews(ctx, "heat")
	require.NoError(t, err)
	assert.NotNil(t, threads)
	assert.Empty(t, threads)
}

func TestActorNameMustNotContainSlash(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateActor(context.Background(), ActorInput{Name: "AC/DC", Description: "band", Image: "actors/x.png"})
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrorTypeValidation, cerrors.GetType(err))

	var cErr *cerrors.CatalogError
	require.True(t, errors.As(err, &cErr))
	assert.Contains(t, cErr.Fields, "name")
}

func TestShotsRequireExistingMovie(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateShot(ctx, MovieShotInput{Title: "Still", Description: "d", Image: "movie_shots/a.jpg", MovieID: 7})
	assert.Equal(t, cerrors.ErrorTypeReference, cerrors.GetType(err))

	m := mustMovie(t, s, movieInput("heat"))
	shot, err := s.CreateShot(ctx, MovieShotInput{Title: "Still", Description: "d", Image: "movie_shots/a.jpg", MovieID: m.ID})
	require.NoError(t, err)

	detail, err := s.MovieDetail(ctx, "heat")
	require.NoError(t, err)
	require.Len(t, detail.Shots, 1)
	assert.Equal(t, "/media/movie_shots/a.jpg", detail.Shots[0].ImageURL)

	require.NoError(t, s.DeleteMovie(ctx, m.ID))
	_, err = s.GetShot(ctx, shot.ID)
	assert.True(t, cerrors.IsNotFound(err))
}

func TestSaveImage(t *testing.T) {
	store := new(mockStore)
	s := NewCatalogService(setupTestDB(t), store, Options{MaxUploadSize: 10})
	ctx := context.Background()
	body := strings.NewReader("jpeg")

	store.On("Save", ctx, database.UploadDirActors, "face.jpg", body, int64(4), "image/jpeg").
		Return("actors/0b1c.jpg", nil).Once()
	store.On("URL", "actors/0b1c.jpg").Return("https://cdn.example.com/actors/0b1c.jpg").Once()

	up, err := s.SaveImage(ctx, "actors", "face.jpg", body, 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "actors/0b1c.jpg", up.Path)
	assert.Equal(t, "https://cdn.example.com/actors/0b1c.jpg", up.URL)

	_, err = s.SaveImage(ctx, "posters", "face.jpg", body, 4, "image/jpeg")
	assert.ErrorIs(t, err, cerrors.ErrUnsupportedUpload)

	_, err = s.SaveImage(ctx, "movies", "big.jpg", body, 11, "image/jpeg")
	assert.Equal(t, cerrors.ErrorTypeValidation, cerrors.GetType(err))

	store.On("Save", ctx, database.UploadDirMovies, "x.exe", body, int64(4), "").
		Return("", storage.ErrUnsupportedType).Once()
	_, err = s.SaveImage(ctx, "movies", "x.exe", body, 4, "")
	assert.Equal(t, cerrors.ErrorTypeValidation, cerrors.GetType(err))

	store.AssertExpectations(t)
}

func TestSchema(t *testing.T) {
	s := newTestService(t)
	metas := s.Schema()
	assert.Len(t, metas, 8)
	assert.NoError(t, s.Ping(context.Background()))
}
