package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDb creates a GORM DB instance backed by go-sqlmock that speaks the
// postgres dialect
func newMockDb(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db, mock
}

func TestRatingStarListPostgresQuery(t *testing.T) {
	db, mock := newMockDb(t)
	repo := NewRatingStarRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "rating_stars" ORDER BY value DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "value"}).
			AddRow(2, 5).
			AddRow(1, 1))

	stars, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stars, 2)
	assert.EqualValues(t, 5, stars[0].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieGetByURLPostgresErrors(t *testing.T) {
	db, mock := newMockDb(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "movies" WHERE url = $1`)).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.GetByURL(context.Background(), "heat")
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrorTypeDatabase, cerrors.GetType(err))
	assert.ErrorIs(t, err, cerrors.ErrDatabaseOperation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryDeletePostgresRollsBack(t *testing.T) {
	db, mock := newMockDb(t)
	repo := NewCategoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "movies" SET "category_id"=$1,"updated_at"=$2 WHERE category_id = $3`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "categories" WHERE "categories"."id" = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 7)
	assert.True(t, cerrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
