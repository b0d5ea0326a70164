// Package api exposes the catalog over HTTP
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mantonx/moviecatalog/internal/errors"
	cerrors "github.com/mantonx/moviecatalog/internal/modules/catalogmodule/errors"
	"github.com/mantonx/moviecatalog/internal/modules/catalogmodule/service"
)

// Handler provides HTTP handlers for catalog operations
type Handler struct {
	catalog *service.CatalogService
}

// NewHandler creates a new API handler
func NewHandler(catalog *service.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// respondError converts a catalog failure into the standard error response
func respondError(c *gin.Context, err error) {
	var cErr *cerrors.CatalogError
	if !errors.As(err, &cErr) {
		apierrors.HandleInternalError(c, "Internal server error", err)
		return
	}

	switch cErr.Type {
	case cerrors.ErrorTypeValidation:
		fields := cErr.Fields
		if len(fields) == 0 && cErr.Field != "" {
			fields = map[string]string{cErr.Field: cErr.Err.Error()}
		}
		apierrors.NewValidationError("Invalid input", fields).ToGinResponse(c)
	case cerrors.ErrorTypeNotFound:
		apierrors.HandleNotFound(c, cErr.Entity, cErr.Key)
	case cerrors.ErrorTypeConflict:
		apierrors.NewConflictError(cErr.Field+" is already in use", cErr.Field).ToGinResponse(c)
	case cerrors.ErrorTypeReference:
		apierrors.NewReferenceError(cErr.Err.Error(), cErr.Field).ToGinResponse(c)
	case cerrors.ErrorTypeDatabase:
		apierrors.NewDatabaseError(cErr.Op, cErr.Err).ToGinResponse(c)
	default:
		apierrors.HandleInternalError(c, "Internal server error", err)
	}
}

// bindJSON decodes the request body and reports malformed payloads
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apierrors.HandleBadRequest(c, "Invalid request body: "+err.Error(), "body")
		return false
	}
	return true
}

// idParam parses a numeric path parameter
func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apierrors.HandleBadRequest(c, "Invalid "+name, name)
		return 0, false
	}
	return uint(id), true
}

// pageParams reads limit and offset. Missing values are zero, which the
// service replaces with its defaults; malformed ones are rejected.
func pageParams(c *gin.Context) (limit, offset int, ok bool) {
	if limit, ok = intQuery(c, "limit"); !ok {
		return 0, 0, false
	}
	if offset, ok = intQuery(c, "offset"); !ok {
		return 0, 0, false
	}
	return limit, offset, true
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		apierrors.HandleBadRequest(c, "Invalid "+name+": must be a non-negative integer", name)
		return 0, false
	}
	return v, true
}

// splitValues accepts both repeated parameters and comma separated lists
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// movieQuery builds listing filters from the request
func movieQuery(c *gin.Context) (service.MovieQuery, bool) {
	q := service.MovieQuery{
		GenreURLs:   splitValues(c.QueryArray("genre")),
		CategoryURL: c.Query("category"),
		Query:       strings.TrimSpace(c.Query("q")),
	}
	for _, raw := range splitValues(c.QueryArray("year")) {
		year, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			apierrors.HandleBadRequest(c, "Invalid year: "+raw, "year")
			return q, false
		}
		q.Years = append(q.Years, uint16(year))
	}
	var ok bool
	q.Limit, q.Offset, ok = pageParams(c)
	return q, ok
}

// ListMovies handles GET /api/movies
//
// Query parameters:
//   - genre: genre slug, repeatable or comma separated
//   - year: release year, repeatable or comma separated
//   - category: category slug
//   - q: case-insensitive title search
//   - limit, offset: paging
func (h *Handler) ListMovies(c *gin.Context) {
	q, ok := movieQuery(c)
	if !ok {
		return
	}
	page, err := h.catalog.ListMovies(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListYears handles GET /api/movies/years
func (h *Handler) ListYears(c *gin.Context) {
	years, err := h.catalog.Years(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if years == nil {
		years = []uint16{}
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

// MovieDetail handles GET /movie/:slug/
func (h *Handler) MovieDetail(c *gin.Context) {
	detail, err := h.catalog.MovieDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ActorDetail handles GET /actor/:slug/ where the segment is the actor's name
func (h *Handler) ActorDetail(c *gin.Context) {
	detail, err := h.catalog.ActorDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListReviews handles GET /movie/:slug/reviews
func (h *Handler) ListReviews(c *gin.Context) {
	threads, err := h.catalog.TopLevelReviews(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": threads})
}

// AddReview handles POST /movie/:slug/reviews
func (h *Handler) AddReview(c *gin.Context) {
	var in service.ReviewInput
	if !bindJSON(c, &in) {
		return
	}
	review, err := h.catalog.AddReview(c.Request.Context(), c.Param("slug"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

type rateRequest struct {
	StarID uint `json:"star_id"`
}

// RateMovie handles POST /movie/:slug/rating. The rating is keyed on the
// client address.
func (h *Handler) RateMovie(c *gin.Context) {
	var req rateRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.catalog.RateMovie(c.Request.Context(), c.Param("slug"), c.ClientIP(), req.StarID)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Replaced {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListGenres handles GET /api/genres
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.catalog.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// ListRatingStars handles GET /api/rating-stars
func (h *Handler) ListRatingStars(c *gin.Context) {
	stars, err := h.catalog.ListRatingStars(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stars": stars})
}
