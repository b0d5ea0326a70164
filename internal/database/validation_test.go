package database

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	return verrs.Fields()
}

func TestValidateMovie(t *testing.T) {
	ok := Movie{Title: "Heat", Description: "d", Poster: "p", Country: "USA", URL: "heat_1995"}
	assert.NoError(t, Validate(&ok))

	bad := ok
	bad.URL = "heat 1995"
	bad.Title = strings.Repeat("x", 101)
	bad.Country = ""
	fields := validationFields(t, Validate(&bad))
	assert.Contains(t, fields, "url")
	assert.Contains(t, fields, "title")
	assert.Equal(t, "this field is required", fields["country"])
}

func TestValidateSlugCharacters(t *testing.T) {
	for _, slug := range []string{"a", "the-matrix", "THE_MATRIX_2", "-"} {
		assert.NoError(t, Validate(&Genre{Name: "g", Description: "d", URL: slug}), slug)
	}
	for _, slug := range []string{"", "a b", "é", "a/b", "a.b"} {
		assert.Error(t, Validate(&Genre{Name: "g", Description: "d", URL: slug}), slug)
	}
}

func TestValidateRatingIP(t *testing.T) {
	assert.NoError(t, Validate(&Rating{IP: "192.168.0.1", StarID: 1, MovieID: 1}))

	fields := validationFields(t, Validate(&Rating{IP: "::1", StarID: 1, MovieID: 1}))
	assert.Equal(t, "enter a valid IPv4 address", fields["ip"])
}

func TestValidateReview(t *testing.T) {
	ok := Review{Email: "a@b.io", Name: "Ann", Text: "great", MovieID: 1}
	assert.NoError(t, Validate(&ok))

	long := ok
	long.Text = strings.Repeat("x", 5001)
	fields := validationFields(t, Validate(&long))
	assert.Contains(t, fields["text"], "5000")

	badEmail := ok
	badEmail.Email = "nope"
	fields = validationFields(t, Validate(&badEmail))
	assert.Contains(t, fields, "email")
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validate(&Category{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "name: this field is required")
}

func TestEntityMetas(t *testing.T) {
	metas := EntityMetas()
	require.Len(t, metas, 8)

	want := map[string][2]string{
		"categories":   {"category", "categories"},
		"actors":       {"actor_director", "actors_directors"},
		"genres":       {"genre", "genres"},
		"movies":       {"movie", "movies"},
		"movie_shots":  {"movie_shot", "movie_shot"},
		"rating_stars": {"rating_star", "rating_star"},
		"ratings":      {"rating", "ratings"},
		"reviews":      {"review", "reviews"},
	}
	for _, m := range metas {
		names, ok := want[m.Table]
		require.True(t, ok, m.Table)
		assert.Equal(t, names[0], m.VerboseName)
		assert.Equal(t, names[1], m.VerboseNamePlural)
	}

	movie, ok := MetaFor("movies")
	require.True(t, ok)
	help := 0
	for _, f := range movie.Fields {
		if f.HelpText == "indicate in USD" {
			help++
		}
	}
	assert.Equal(t, 3, help)

	_, ok = MetaFor("users")
	assert.False(t, ok)
}

func TestEntityMetasReturnsCopies(t *testing.T) {
	metas := EntityMetas()
	metas[0].Fields[0].Label = "changed"
	again, _ := MetaFor(metas[0].Table)
	assert.NotEqual(t, "changed", again.Fields[0].Label)
}

func TestValidateActorNameRejectsSlash(t *testing.T) {
	assert.NoError(t, Validate(&Actor{Name: "Al Pacino", Description: "d", Image: "actors/a.jpg"}))

	fields := validationFields(t, Validate(&Actor{Name: "AC/DC", Description: "d", Image: "actors/a.jpg"}))
	assert.Equal(t, `must not contain any of "/"`, fields["name"])
}
