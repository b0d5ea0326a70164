package database

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"

	"github.com/mantonx/moviecatalog/internal/urls"
	"gorm.io/gorm"
)

// DefaultMovieYear is stored when a movie is created without a year.
const DefaultMovieYear uint16 = 2019

// Upload directories for image fields, relative to the media store root.
const (
	UploadDirActors     = "actors/"
	UploadDirMovies     = "movies/"
	UploadDirMovieShots = "movie_shots/"
)

// Now is the clock used for date defaults. Tests replace it.
var Now = time.Now

// =============================================================================
// DATE COLUMN
// =============================================================================

// Date is a calendar date without time of day, stored as a SQL DATE.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates t to its calendar date in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date according to Now.
func Today() Date {
	return NewDate(Now())
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(dateLayout), nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType pins the column type on every dialect.
func (Date) GormDataType() string {
	return "date"
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.Format(dateLayout))), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(unquoted)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// CATALOG ENTITIES
// =============================================================================

// Category groups movies (feature film, cartoon, series...)
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name" validate:"required,max=150"`
	Description string    `gorm:"type:text" json:"description" validate:"required"`
	URL         string    `gorm:"size:160;not null;uniqueIndex" json:"url" validate:"required,max=160,slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

func (c Category) String() string { return c.Name }

// Actor is a person credited on a movie, either as an actor or a director.
type Actor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;index" json:"name" validate:"required,max=100,excludesall=/"`
	Age         uint16    `gorm:"not null;default:0" json:"age"`
	Description string    `gorm:"type:text" json:"description" validate:"required"`
	Image       string    `gorm:"size:255" json:"image" validate:"required,max=255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Actor) TableName() string { return "actors" }

func (a Actor) String() string { return a.Name }

// AbsoluteURL returns the canonical detail path, keyed by the actor's name.
// It is empty for an actor without a name.
func (a Actor) AbsoluteURL() string {
	path, err := urls.Reverse(urls.ActorDetail, "slug", a.Name)
	if err != nil {
		return ""
	}
	return path
}

// Genre is a movie genre
type Genre struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Description string    `gorm:"type:text" json:"description" validate:"required"`
	URL         string    `gorm:"size:160;not null;uniqueIndex" json:"url" validate:"required,max=160,slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Genre) TableName() string { return "genres" }

func (g Genre) String() string { return g.Name }

// Movie is the central catalog record. Directors, actors and genres live in
// the join tables below; CategoryID is cleared when its category is deleted.
// Category is only declared for the foreign key and is never loaded.
type Movie struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:100;not null;index" json:"title" validate:"required,max=100"`
	Tagline       string    `gorm:"size:100;not null;default:''" json:"tagline" validate:"max=100"`
	Description   string    `gorm:"type:text" json:"description" validate:"required"`
	Poster        string    `gorm:"size:255" json:"poster" validate:"required,max=255"`
	Year          uint16    `gorm:"not null;default:2019;index" json:"year"`
	Country       string    `gorm:"size:30;not null" json:"country" validate:"required,max=30"`
	WorldPremiere Date      `gorm:"not null" json:"world_premiere"`
	Budget        uint32    `gorm:"not null;default:0" json:"budget"`
	FeesInUSA     uint32    `gorm:"column:fees_in_usa;not null;default:0" json:"fees_in_usa"`
	FeesInWorld   uint32    `gorm:"column:fees_in_world;not null;default:0" json:"fees_in_world"`
	CategoryID    *uint     `gorm:"index" json:"category_id"`
	URL           string    `gorm:"size:130;not null;uniqueIndex" json:"url" validate:"required,max=130,slug"`
	Draft         bool      `gorm:"not null;default:false;index" json:"draft"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"-" validate:"-"`
}

func (Movie) TableName() string { return "movies" }

func (m Movie) String() string { return m.Title }

// AbsoluteURL returns the canonical detail path, keyed by the movie's slug.
// It is empty for a movie without a slug.
func (m Movie) AbsoluteURL() string {
	path, err := urls.Reverse(urls.MovieDetail, "slug", m.URL)
	if err != nil {
		return ""
	}
	return path
}

// BeforeCreate fills the date and year defaults.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.WorldPremiere.IsZero() {
		m.WorldPremiere = Today()
	}
	if m.Year == 0 {
		m.Year = DefaultMovieYear
	}
	return nil
}

// MovieShot is a still frame from a movie
type MovieShot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title" validate:"required,max=100"`
	Description string    `gorm:"type:text" json:"description" validate:"required"`
	Image       string    `gorm:"size:255" json:"image" validate:"required,max=255"`
	MovieID     uint      `gorm:"not null;index" json:"movie_id" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Movie *Movie `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (MovieShot) TableName() string { return "movie_shots" }

func (s MovieShot) String() string { return s.Title }

// RatingStar is one selectable value on the rating scale
type RatingStar struct {
	ID    uint  `gorm:"primaryKey" json:"id"`
	Value int16 `gorm:"not null;default:0" json:"value"`
}

func (RatingStar) TableName() string { return "rating_stars" }

func (s RatingStar) String() string { return strconv.Itoa(int(s.Value)) }

// RatingStarOrder is the canonical listing order for rating stars.
const RatingStarOrder = "value DESC, id DESC"

// Rating is a star given to a movie from one IPv4 address. An address
// rates a movie at most once.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IP        string    `gorm:"column:ip;size:15;not null;uniqueIndex:idx_rating_ip_movie" json:"ip" validate:"required,max=15,ipv4"`
	StarID    uint      `gorm:"not null;index" json:"star_id" validate:"required"`
	MovieID   uint      `gorm:"not null;uniqueIndex:idx_rating_ip_movie;index" json:"movie_id" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Star  *RatingStar `gorm:"foreignKey:StarID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Movie *Movie      `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Rating) TableName() string { return "ratings" }

// Label renders the admin display string for a rating.
func (r Rating) Label(star RatingStar, movie Movie) string {
	return star.String() + " - " + movie.String()
}

// Review is a comment on a movie. ParentID links a reply to the review it
// answers and is cleared when that review is deleted.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:254;not null" json:"email" validate:"required,max=254,email"`
	Name      string    `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Text      string    `gorm:"type:text;not null" json:"text" validate:"required,max=5000"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	MovieID   uint      `gorm:"not null;index" json:"movie_id" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Parent *Review `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-" validate:"-"`
	Movie  *Movie  `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Review) TableName() string { return "reviews" }

// Label renders the admin display string for a review.
func (r Review) Label(movie Movie) string {
	return r.Name + " - " + movie.String()
}

// IsTopLevel reports whether the review is not a reply.
func (r Review) IsTopLevel() bool { return r.ParentID == nil }

// =============================================================================
// JOIN TABLES
// =============================================================================

// MovieDirector links a movie to an actor credited as director
type MovieDirector struct {
	MovieID uint `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	ActorID uint `gorm:"primaryKey;autoIncrement:false;index" json:"actor_id"`

	Movie *Movie `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Actor *Actor `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (MovieDirector) TableName() string { return "movie_directors" }

// MovieActor links a movie to a credited actor
type MovieActor struct {
	MovieID uint `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	ActorID uint `gorm:"primaryKey;autoIncrement:false;index" json:"actor_id"`

	Movie *Movie `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Actor *Actor `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (MovieActor) TableName() string { return "movie_actors" }

// MovieGenre links a movie to a genre
type MovieGenre struct {
	MovieID uint `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	GenreID uint `gorm:"primaryKey;autoIncrement:false;index" json:"genre_id"`

	Movie *Movie `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Genre *Genre `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (MovieGenre) TableName() string { return "movie_genres" }

// AllModels lists every table owned by the catalog, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Category{},
		&Actor{},
		&Genre{},
		&Movie{},
		&MovieDirector{},
		&MovieActor{},
		&MovieGenre{},
		&MovieShot{},
		&RatingStar{},
		&Rating{},
		&Review{},
	}
}
