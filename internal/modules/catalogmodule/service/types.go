package service

import (
	"time"

	"github.com/mantonx/moviecatalog/internal/database"
	"github.com/mantonx/moviecatalog/internal/modules/catalogmodule/core/repository"
)

// CategoryInput is the editable part of a category
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// GenreInput is the editable part of a genre
type GenreInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ActorInput is the editable part of an actor or director
type ActorInput struct {
	Name        string `json:"name"`
	Age         uint16 `json:"age"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MovieInput is the editable part of a movie. A nil credit list leaves the
// current links untouched on update; an empty list clears them.
type MovieInput struct {
	Title         string        `json:"title"`
	Tagline       string        `json:"tagline"`
	Description   string        `json:"description"`
	Poster        string        `json:"poster"`
	Year          uint16        `json:"year"`
	Country       string        `json:"country"`
	WorldPremiere database.Date `json:"world_premiere"`
	Budget        uint32        `json:"budget"`
	FeesInUSA     uint32        `json:"fees_in_usa"`
	FeesInWorld   uint32        `json:"fees_in_world"`
	CategoryID    *uint         `json:"category_id"`
	URL           string        `json:"url"`
	Draft         bool          `json:"draft"`
	DirectorIDs   []uint        `json:"director_ids"`
	ActorIDs      []uint        `json:"actor_ids"`
	GenreIDs      []uint        `json:"genre_ids"`
}

// MovieShotInput is the editable part of a movie still
type MovieShotInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	MovieID     uint   `json:"movie_id"`
}

// ReviewInput is a review or reply submitted for a movie
type ReviewInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Text     string `json:"text"`
	ParentID *uint  `json:"parent_id"`
}

// MovieQuery filters the movie listing
type MovieQuery struct {
	GenreURLs   []string
	Years       []uint16
	CategoryURL string
	Query       string
	Limit       int
	Offset      int
}

// Page is one slice of a listing
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// MovieSummary is a movie as shown in listings
type MovieSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Tagline     string `json:"tagline"`
	Year        uint16 `json:"year"`
	Country     string `json:"country"`
	URL         string `json:"url"`
	Draft       bool   `json:"draft"`
	Poster      string `json:"poster"`
	PosterURL   string `json:"poster_url"`
	AbsoluteURL string `json:"absolute_url"`
}

// ActorSummary is an actor as listed on a movie page
type ActorSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	AbsoluteURL string `json:"absolute_url"`
}

// ShotView is a movie still with its public link
type ShotView struct {
	database.MovieShot
	ImageURL string `json:"image_url"`
}

// ReviewThread is a review with its replies nested below it
type ReviewThread struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	Replies   []ReviewThread `json:"replies"`
}

// MovieDetail is the public movie page
type MovieDetail struct {
	database.Movie
	AbsoluteURL string                   `json:"absolute_url"`
	PosterURL   string                   `json:"poster_url"`
	Category    *database.Category       `json:"category"`
	Directors   []ActorSummary           `json:"directors"`
	Actors      []ActorSummary           `json:"actors"`
	Genres      []database.Genre         `json:"genres"`
	Shots       []ShotView               `json:"shots"`
	Reviews     []ReviewThread           `json:"reviews"`
	Rating      repository.RatingSummary `json:"rating"`
}

// ActorDetail is the public actor page
type ActorDetail struct {
	database.Actor
	AbsoluteURL string         `json:"absolute_url"`
	ImageURL    string         `json:"image_url"`
	Directed    []MovieSummary `json:"directed"`
	ActedIn     []MovieSummary `json:"acted_in"`
}

// RatingResult reports the stored rating and whether it replaced an earlier one
type RatingResult struct {
	Rating   database.Rating     `json:"rating"`
	Star     database.RatingStar `json:"star"`
	Replaced bool                `json:"replaced"`
}

// ImageUpload is a stored image file
type ImageUpload struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}
