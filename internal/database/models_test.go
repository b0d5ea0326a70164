package database

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mantonx/moviecatalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseFullConfig{Type: "sqlite", DatabasePath: MemoryPath})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return at }
	t.Cleanup(func() { Now = prev })
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2021-03-04"))
	assert.Equal(t, "2021-03-04", d.String())

	require.NoError(t, d.Scan([]byte("2020-01-02T00:00:00Z")))
	assert.Equal(t, "2020-01-02", d.String())

	require.NoError(t, d.Scan(time.Date(2019, 7, 8, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2019-07-08", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2019-07-08", v)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err = d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("yesterday"))
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("1999-03-31")
	require.NoError(t, err)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1999-03-31"`, string(out))

	var back Date
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, d, back)

	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.True(t, back.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`"31/03/1999"`), &back))
}

func TestMovieCreateDefaults(t *testing.T) {
	freezeClock(t, time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC))
	db := openTestDB(t)

	movie := Movie{Title: "Heat", Description: "d", Poster: "movies/heat.jpg", Country: "USA", URL: "heat"}
	require.NoError(t, db.Create(&movie).Error)

	var stored Movie
	require.NoError(t, db.First(&stored, movie.ID).Error)
	assert.Equal(t, DefaultMovieYear, stored.Year)
	assert.Equal(t, "2024-05-01", stored.WorldPremiere.String())
	assert.False(t, stored.Draft)
	assert.Nil(t, stored.CategoryID)
	assert.Equal(t, "", stored.Tagline)
	assert.Zero(t, stored.Budget)
}

func TestMovieCreateKeepsExplicitValues(t *testing.T) {
	db := openTestDB(t)
	premiere, _ := ParseDate("1995-12-15")

	movie := Movie{Title: "Heat", Description: "d", Poster: "p", Country: "USA", URL: "heat",
		Year: 1995, WorldPremiere: premiere, Budget: 60000000}
	require.NoError(t, db.Create(&movie).Error)

	var stored Movie
	require.NoError(t, db.First(&stored, movie.ID).Error)
	assert.Equal(t, uint16(1995), stored.Year)
	assert.Equal(t, "1995-12-15", stored.WorldPremiere.String())
	assert.Equal(t, uint32(60000000), stored.Budget)
}

func TestSlugUniqueness(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&Category{Name: "Films", Description: "d", URL: "films"}).Error)
	err := db.Create(&Category{Name: "Other", Description: "d", URL: "films"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAbsoluteURLs(t *testing.T) {
	assert.Equal(t, "/movie/the-matrix/", Movie{URL: "the-matrix"}.AbsoluteURL())
	assert.Equal(t, "/actor/Keanu%20Reeves/", Actor{Name: "Keanu Reeves"}.AbsoluteURL())
	assert.Empty(t, Actor{}.AbsoluteURL())
	assert.Empty(t, Movie{}.AbsoluteURL())
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)
	err := db.Create(&Review{Email: "a@b.io", Name: "Ann", Text: "t", MovieID: 42}).Error
	assert.Error(t, err)

	parent := uint(7)
	movie := Movie{Title: "Heat", Description: "d", Poster: "p", Country: "USA", URL: "heat"}
	require.NoError(t, db.Create(&movie).Error)
	err = db.Create(&Review{Email: "a@b.io", Name: "Ann", Text: "t", MovieID: movie.ID, ParentID: &parent}).Error
	assert.Error(t, err)
}

func TestDisplayStrings(t *testing.T) {
	movie := Movie{Title: "Heat"}
	assert.Equal(t, "Heat", movie.String())
	assert.Equal(t, "Drama", Genre{Name: "Drama"}.String())
	assert.Equal(t, "Films", Category{Name: "Films"}.String())
	assert.Equal(t, "Al Pacino", Actor{Name: "Al Pacino"}.String())
	assert.Equal(t, "Opening", MovieShot{Title: "Opening"}.String())
	assert.Equal(t, "-2", RatingStar{Value: -2}.String())
	assert.Equal(t, "5 - Heat", Rating{}.Label(RatingStar{Value: 5}, movie))
	assert.Equal(t, "Ann - Heat", Review{Name: "Ann"}.Label(movie))

	parent := uint(3)
	assert.True(t, Review{}.IsTopLevel())
	assert.False(t, Review{ParentID: &parent}.IsTopLevel())
}

func TestMigrateCreatesAllTables(t *testing.T) {
	db := openTestDB(t)
	for _, table := range []string{
		"categories", "actors", "genres", "movies", "movie_directors", "movie_actors",
		"movie_genres", "movie_shots", "rating_stars", "ratings", "reviews",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn(&Movie{}, "fees_in_usa"))
	assert.True(t, db.Migrator().HasColumn(&Rating{}, "ip"))
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(config.DatabaseFullConfig{Type: "oracle"})
	assert.Error(t, err)
}

func TestInitializeSetsGlobal(t *testing.T) {
	dir := t.TempDir()
	db, err := Initialize(config.DatabaseFullConfig{Type: "sqlite", DataDir: dir})
	require.NoError(t, err)
	assert.Same(t, db, GetDB())
	require.NoError(t, Close())
	assert.Nil(t, GetDB())
}
