package repository

import (
	"context"

	"github.com/mantonx/moviecatalog/internal/database"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
)

// ActorRepository handles database operations for actors and directors
type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) Create(ctx context.Context, a *database.Actor) error {
	return translate("create_actor", "actor", a.Name, r.db.WithContext(ctx).Create(a).Error)
}

func (r *ActorRepository) Update(ctx context.Context, a *database.Actor) error {
	result := updateAll(r.db.WithContext(ctx), a)
	if result.Error != nil {
		return translate("update_actor", "actor", a.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return cerrors.NotFound("update_actor", "actor", a.ID)
	}
	return nil
}

func (r *ActorRepository) GetByID(ctx context.Context, id uint) (*database.Actor, error) {
	var a database.Actor
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate("get_actor", "actor", id, err)
	}
	return &a, nil
}

// GetByName returns the earliest actor with the given name. Names are not
// unique, so the lowest ID wins.
func (r *ActorRepository) GetByName(ctx context.Context, name string) (*database.Actor, error) {
	var a database.Actor
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&a).Error; err != nil {
		return nil, translate("get_actor", "actor", name, err)
	}
	return &a, nil
}

func (r *ActorRepository) List(ctx context.Context) ([]database.Actor, error) {
	var out []database.Actor
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, translate("list_actors", "actor", "", err)
	}
	return out, nil
}

// MoviesDirected returns the movies the actor is credited as director on
func (r *ActorRepository) MoviesDirected(ctx context.Context, actorID uint, includeDrafts bool) ([]database.Movie, error) {
	return r.filmography(ctx, "movie_directors", actorID, includeDrafts)
}

// MoviesActed returns the movies the actor is credited as cast on
func (r *ActorRepository) MoviesActed(ctx context.Context, actorID uint, includeDrafts bool) ([]database.Movie, error) {
	return r.filmography(ctx, "movie_actors", actorID, includeDrafts)
}

func (r *ActorRepository) filmography(ctx context.Context, table string, actorID uint, includeDrafts bool) ([]database.Movie, error) {
	db := r.db.WithContext(ctx)
	sub := db.Table(table).Select("movie_id").Where("actor_id = ?", actorID)
	q := db.Where("id IN (?)", sub)
	if !includeDrafts {
		q = q.Where("draft = ?", false)
	}
	var movies []database.Movie
	if err := q.Order("year DESC, id DESC").Find(&movies).Error; err != nil {
		return nil, translate("list_filmography", "actor", actorID, err)
	}
	return movies, nil
}

// Delete removes an actor and every director or cast credit that names them
func (r *ActorRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("actor_id = ?", id).Delete(&database.MovieDirector{}).Error; err != nil {
			return err
		}
		if err := tx.Where("actor_id = ?", id).Delete(&database.MovieActor{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&database.Actor{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return cerrors.NotFound("delete_actor", "actor", id)
		}
		return nil
	})
	return translate("delete_actor", "actor", id, err)
}

func countMatches(tx *gorm.DB, model interface{}, ids []uint) (bool, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}
