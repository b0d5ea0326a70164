// Package api - admin handlers
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mantonx/moviecatalog/internal/errors"
	"github.com/mantonx/moviecatalog/internal/modules/catalogmodule/service"
)

// ---- categories ----

func (h *Handler) AdminGetCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	category, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) AdminCreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) AdminUpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) AdminDeleteCategory(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteCategory)
}

// ---- genres ----

func (h *Handler) AdminGetGenre(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	genre, err := h.catalog.GetGenre(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

func (h *Handler) AdminCreateGenre(c *gin.Context) {
	var in service.GenreInput
	if !bindJSON(c, &in) {
		return
	}
	genre, err := h.catalog.CreateGenre(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

func (h *Handler) AdminUpdateGenre(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.GenreInput
	if !bindJSON(c, &in) {
		return
	}
	genre, err := h.catalog.UpdateGenre(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

func (h *Handler) AdminDeleteGenre(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteGenre)
}

// ---- actors ----

func (h *Handler) AdminListActors(c *gin.Context) {
	actors, err := h.catalog.ListActors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actors": actors})
}

func (h *Handler) AdminGetActor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor, err := h.catalog.GetActor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, actor)
}

func (h *Handler) AdminCreateActor(c *gin.Context) {
	var in service.ActorInput
	if !bindJSON(c, &in) {
		return
	}
	actor, err := h.catalog.CreateActor(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, actor)
}

func (h *Handler) AdminUpdateActor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.ActorInput
	if !bindJSON(c, &in) {
		return
	}
	actor, err := h.catalog.UpdateActor(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, actor)
}

func (h *Handler) AdminDeleteActor(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteActor)
}

// ---- movies ----

// AdminListMovies handles GET /api/admin/movies, drafts included
func (h *Handler) AdminListMovies(c *gin.Context) {
	q, ok := movieQuery(c)
	if !ok {
		return
	}
	page, err := h.catalog.ListAllMovies(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) AdminGetMovie(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	movie, err := h.catalog.GetMovie(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

func (h *Handler) AdminCreateMovie(c *gin.Context) {
	var in service.MovieInput
	if !bindJSON(c, &in) {
		return
	}
	movie, err := h.catalog.CreateMovie(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movie)
}

func (h *Handler) AdminUpdateMovie(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.MovieInput
	if !bindJSON(c, &in) {
		return
	}
	movie, err := h.catalog.UpdateMovie(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

func (h *Handler) AdminDeleteMovie(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteMovie)
}

type idsRequest struct {
	IDs []uint `json:"ids"`
}

// AdminSetDirectors handles PUT /api/admin/movies/:id/directors
func (h *Handler) AdminSetDirectors(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req idsRequest
	if !bindJSON(c, &req) {
		return
	}
	directors, err := h.catalog.SetMovieDirectors(c.Request.Context(), id, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"directors": directors})
}

// AdminSetActors handles PUT /api/admin/movies/:id/actors
func (h *Handler) AdminSetActors(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req idsRequest
	if !bindJSON(c, &req) {
		return
	}
	actors, err := h.catalog.SetMovieActors(c.Request.Context(), id, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actors": actors})
}

// AdminSetGenres handles PUT /api/admin/movies/:id/genres
func (h *Handler) AdminSetGenres(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req idsRequest
	if !bindJSON(c, &req) {
		return
	}
	genres, err := h.catalog.SetMovieGenres(c.Request.Context(), id, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// AdminListShots handles GET /api/admin/movies/:id/shots
func (h *Handler) AdminListShots(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	shots, err := h.catalog.ListShots(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shots": shots})
}

// ---- movie shots ----

func (h *Handler) AdminGetShot(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	shot, err := h.catalog.GetShot(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shot)
}

func (h *Handler) AdminCreateShot(c *gin.Context) {
	var in service.MovieShotInput
	if !bindJSON(c, &in) {
		return
	}
	shot, err := h.catalog.CreateShot(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shot)
}

func (h *Handler) AdminUpdateShot(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.MovieShotInput
	if !bindJSON(c, &in) {
		return
	}
	shot, err := h.catalog.UpdateShot(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shot)
}

func (h *Handler) AdminDeleteShot(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteShot)
}

// ---- rating stars ----

type starRequest struct {
	Value int16 `json:"value"`
}

func (h *Handler) AdminGetRatingStar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	star, err := h.catalog.GetRatingStar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, star)
}

func (h *Handler) AdminCreateRatingStar(c *gin.Context) {
	var req starRequest
	if !bindJSON(c, &req) {
		return
	}
	star, err := h.catalog.CreateRatingStar(c.Request.Context(), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, star)
}

func (h *Handler) AdminUpdateRatingStar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req starRequest
	if !bindJSON(c, &req) {
		return
	}
	star, err := h.catalog.UpdateRatingStar(c.Request.Context(), id, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, star)
}

func (h *Handler) AdminDeleteRatingStar(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteRatingStar)
}

// ---- ratings and reviews ----

func (h *Handler) AdminListRatings(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.catalog.ListRatings(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) AdminGetRating(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rating, err := h.catalog.GetRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *Handler) AdminMovieRatings(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ratings, err := h.catalog.MovieRatings(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (h *Handler) AdminMovieReviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.catalog.MovieReviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) AdminDeleteRating(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteRating)
}

func (h *Handler) AdminListReviews(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.catalog.ListReviews(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) AdminDeleteReview(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteReview)
}

// ---- uploads and schema ----

// AdminUpload handles POST /api/admin/uploads/:kind with a multipart "file"
// field. The response carries the stored path to put in an image field.
func (h *Handler) AdminUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		apierrors.HandleBadRequest(c, "Missing file", "file")
		return
	}
	file, err := header.Open()
	if err != nil {
		apierrors.HandleInternalError(c, "Failed to read upload", err)
		return
	}
	defer file.Close()

	upload, err := h.catalog.SaveImage(c.Request.Context(), c.Param("kind"), header.Filename,
		file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// AdminSchema handles GET /api/admin/schema
func (h *Handler) AdminSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": h.catalog.Schema()})
}

func (h *Handler) deleteByID(c *gin.Context, del func(ctx context.Context, id uint) error) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
