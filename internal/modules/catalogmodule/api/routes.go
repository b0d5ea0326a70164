package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/urls"
)

// RegisterRoutes registers all catalog routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	// Canonical pages share their patterns with AbsoluteURL
	router.GET(urls.Pattern(urls.MovieDetail), handler.MovieDetail)
	router.GET(urls.Pattern(urls.ActorDetail), handler.ActorDetail)

	movieGroup := router.Group("/movie/:slug")
	{
		movieGroup.GET("/reviews", handler.ListReviews)
		movieGroup.POST("/reviews", handler.AddReview)
		movieGroup.POST("/rating", handler.RateMovie)
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/movies", handler.ListMovies)
		apiGroup.GET("/movies/years", handler.ListYears)
		apiGroup.GET("/categories", handler.ListCategories)
		apiGroup.GET("/genres", handler.ListGenres)
		apiGroup.GET("/rating-stars", handler.ListRatingStars)
	}

	adminGroup := router.Group("/api/admin")
	{
		adminGroup.GET("/categories", handler.ListCategories)
		adminGroup.POST("/categories", handler.AdminCreateCategory)
		adminGroup.GET("/categories/:id", handler.AdminGetCategory)
		adminGroup.PUT("/categories/:id", handler.AdminUpdateCategory)
		adminGroup.DELETE("/categories/:id", handler.AdminDeleteCategory)

		adminGroup.GET("/genres", handler.ListGenres)
		adminGroup.POST("/genres", handler.AdminCreateGenre)
		adminGroup.GET("/genres/:id", handler.AdminGetGenre)
		adminGroup.PUT("/genres/:id", handler.AdminUpdateGenre)
		adminGroup.DELETE("/genres/:id", handler.AdminDeleteGenre)

		adminGroup.GET("/actors", handler.AdminListActors)
		adminGroup.POST("/actors", handler.AdminCreateActor)
		adminGroup.GET("/actors/:id", handler.AdminGetActor)
		adminGroup.PUT("/actors/:id", handler.AdminUpdateActor)
		adminGroup.DELETE("/actors/:id", handler.AdminDeleteActor)

		adminGroup.GET("/movies", handler.AdminListMovies)
		adminGroup.POST("/movies", handler.AdminCreateMovie)
		adminGroup.GET("/movies/:id", handler.AdminGetMovie)
		adminGroup.PUT("/movies/:id", handler.AdminUpdateMovie)
		adminGroup.DELETE("/movies/:id", handler.AdminDeleteMovie)
		adminGroup.PUT("/movies/:id/directors", handler.AdminSetDirectors)
		adminGroup.PUT("/movies/:id/actors", handler.AdminSetActors)
		adminGroup.PUT("/movies/:id/genres", handler.AdminSetGenres)
		adminGroup.GET("/movies/:id/shots", handler.AdminListShots)
		adminGroup.GET("/movies/:id/ratings", handler.AdminMovieRatings)
		adminGroup.GET("/movies/:id/reviews", handler.AdminMovieReviews)

		adminGroup.POST("/movie-shots", handler.AdminCreateShot)
		adminGroup.GET("/movie-shots/:id", handler.AdminGetShot)
		adminGroup.PUT("/movie-shots/:id", handler.AdminUpdateShot)
		adminGroup.DELETE("/movie-shots/:id", handler.AdminDeleteShot)

		adminGroup.GET("/rating-stars", handler.ListRatingStars)
		adminGroup.POST("/rating-stars", handler.AdminCreateRatingStar)
		adminGroup.GET("/rating-stars/:id", handler.AdminGetRatingStar)
		adminGroup.PUT("/rating-stars/:id", handler.AdminUpdateRatingStar)
		adminGroup.DELETE("/rating-stars/:id", handler.AdminDeleteRatingStar)

		adminGroup.GET("/ratings", handler.AdminListRatings)
		adminGroup.GET("/ratings/:id", handler.AdminGetRating)
		adminGroup.DELETE("/ratings/:id", handler.AdminDeleteRating)
		adminGroup.GET("/reviews", handler.AdminListReviews)
		adminGroup.DELETE("/reviews/:id", handler.AdminDeleteReview)

		adminGroup.POST("/uploads/:kind", handler.AdminUpload)
		adminGroup.GET("/schema", handler.AdminSchema)
	}
}
