package database

// FieldMeta describes one field for admin screens.
type FieldMeta struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	HelpText string `json:"help_text,omitempty"`
	Required bool   `json:"required"`
	MaxLen   int    `json:"max_length,omitempty"`
	Unique   bool   `json:"unique,omitempty"`
	Related  string `json:"related,omitempty"`
	OnDelete string `json:"on_delete,omitempty"`
	Default  string `json:"default,omitempty"`
	UploadTo string `json:"upload_to,omitempty"`
}

// EntityMeta carries the display names and field list an admin UI generator
// needs to build a management screen for one entity.
type EntityMeta struct {
	Table             string      `json:"table"`
	VerboseName       string      `json:"verbose_name"`
	VerboseNamePlural string      `json:"verbose_name_plural"`
	Description       string      `json:"description"`
	Ordering          []string    `json:"ordering,omitempty"`
	Fields            []FieldMeta `json:"fields"`
}

const usdHelp = "indicate in USD"

var entityMeta = []EntityMeta{
	{
		Table: "categories", VerboseName: "category", VerboseNamePlural: "categories",
		Description: "Categories",
		Fields: []FieldMeta{
			{Name: "name", Label: "category", Kind: "char", Required: true, MaxLen: 150},
			{Name: "description", Label: "description", Kind: "text", Required: true},
			{Name: "url", Label: "url", Kind: "slug", Required: true, MaxLen: 160, Unique: true},
		},
	},
	{
		Table: "actors", VerboseName: "actor_director", VerboseNamePlural: "actors_directors",
		Description: "Actors & Directors",
		Fields: []FieldMeta{
			{Name: "name", Label: "name", Kind: "char", Required: true, MaxLen: 100},
			{Name: "age", Label: "age", Kind: "positive_small_integer", Default: "0"},
			{Name: "description", Label: "description", Kind: "text", Required: true},
			{Name: "image", Label: "picture", Kind: "image", Required: true, UploadTo: UploadDirActors},
		},
	},
	{
		Table: "genres", VerboseName: "genre", VerboseNamePlural: "genres",
		Description: "Genres",
		Fields: []FieldMeta{
			{Name: "name", Label: "name", Kind: "char", Required: true, MaxLen: 100},
			{Name: "description", Label: "description", Kind: "text", Required: true},
			{Name: "url", Label: "url", Kind: "slug", Required: true, MaxLen: 160, Unique: true},
		},
	},
	{
		Table: "movies", VerboseName: "movie", VerboseNamePlural: "movies",
		Description: "Movie",
		Fields: []FieldMeta{
			{Name: "title", Label: "title", Kind: "char", Required: true, MaxLen: 100},
			{Name: "tagline", Label: "tagline", Kind: "char", MaxLen: 100, Default: ""},
			{Name: "description", Label: "description", Kind: "text", Required: true},
			{Name: "poster", Label: "poster", Kind: "image", Required: true, UploadTo: UploadDirMovies},
			{Name: "year", Label: "Year", Kind: "positive_small_integer", Default: "2019"},
			{Name: "country", Label: "country", Kind: "char", Required: true, MaxLen: 30},
			{Name: "directors", Label: "director", Kind: "many_to_many", Related: "actors"},
			{Name: "actors", Label: "actors", Kind: "many_to_many", Related: "actors"},
			{Name: "genres", Label: "genres", Kind: "many_to_many", Related: "genres"},
			{Name: "world_premiere", Label: "world_premiere", Kind: "date", Default: "today"},
			{Name: "budget", Label: "budget", Kind: "positive_integer", HelpText: usdHelp, Default: "0"},
			{Name: "fees_in_usa", Label: "fees_in_usa", Kind: "positive_integer", HelpText: usdHelp, Default: "0"},
			{Name: "fees_in_world", Label: "fees_in_world", Kind: "positive_integer", HelpText: usdHelp, Default: "0"},
			{Name: "category", Label: "category", Kind: "foreign_key", Related: "categories", OnDelete: "SET_NULL"},
			{Name: "url", Label: "url", Kind: "slug", Required: true, MaxLen: 130, Unique: true},
			{Name: "draft", Label: "draft", Kind: "boolean", Default: "false"},
		},
	},
	{
		Table: "movie_shots", VerboseName: "movie_shot", VerboseNamePlural: "movie_shot",
		Description: "Movie Shots",
		Fields: []FieldMeta{
			{Name: "title", Label: "title", Kind: "char", Required: true, MaxLen: 100},
			{Name: "description", Label: "description", Kind: "text", Required: true},
			{Name: "image", Label: "picture", Kind: "image", Required: true, UploadTo: UploadDirMovieShots},
			{Name: "movie", Label: "movie", Kind: "foreign_key", Required: true, Related: "movies", OnDelete: "CASCADE"},
		},
	},
	{
		Table: "rating_stars", VerboseName: "rating_star", VerboseNamePlural: "rating_star",
		Description: "Rating Star",
		Ordering:    []string{"-value"},
		Fields: []FieldMeta{
			{Name: "value", Label: "value", Kind: "small_integer", Default: "0"},
		},
	},
	{
		Table: "ratings", VerboseName: "rating", VerboseNamePlural: "ratings",
		Description: "Rating",
		Fields: []FieldMeta{
			{Name: "ip", Label: "ip_address", Kind: "char", Required: true, MaxLen: 15},
			{Name: "star", Label: "star", Kind: "foreign_key", Required: true, Related: "rating_stars", OnDelete: "CASCADE"},
			{Name: "movie", Label: "movie", Kind: "foreign_key", Required: true, Related: "movies", OnDelete: "CASCADE"},
		},
	},
	{
		Table: "reviews", VerboseName: "review", VerboseNamePlural: "reviews",
		Description: "Review",
		Fields: []FieldMeta{
			{Name: "email", Label: "email", Kind: "email", Required: true, MaxLen: 254},
			{Name: "name", Label: "name", Kind: "char", Required: true, MaxLen: 100},
			{Name: "text", Label: "text", Kind: "text", Required: true, MaxLen: 5000},
			{Name: "parent", Label: "parent", Kind: "foreign_key", Related: "reviews", OnDelete: "SET_NULL"},
			{Name: "movie", Label: "movie", Kind: "foreign_key", Required: true, Related: "movies", OnDelete: "CASCADE"},
		},
	},
}

// EntityMetas returns admin metadata for every catalog entity.
func EntityMetas() []EntityMeta {
	out := make([]EntityMeta, len(entityMeta))
	for i, m := range entityMeta {
		m.Fields = append([]FieldMeta(nil), m.Fields...)
		m.Ordering = append([]string(nil), m.Ordering...)
		out[i] = m
	}
	return out
}

// MetaFor returns the metadata for a table name.
func MetaFor(table string) (EntityMeta, bool) {
	for _, m := range EntityMetas() {
		if m.Table == table {
			return m, true
		}
	}
	return EntityMeta{}, false
}
