package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredFieldsInJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Configure(Options{Level: "info", Format: "text"}) })

	Info("movie %s created", "inception", []Field{String("slug", "inception"), Uint("id", 7)})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "movie inception created", entry["@message"])
	assert.Equal(t, "inception", entry["slug"])
	assert.EqualValues(t, 7, entry["id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "warn", Format: "text", Output: &buf})
	t.Cleanup(func() { Configure(Options{Level: "info", Format: "text"}) })

	Debug("hidden")
	Info("hidden too")
	Warn("visible %d", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible 1")

	buf.Reset()
	SetLevel("debug")
	Debug("now shown")
	assert.Contains(t, buf.String(), "now shown")
}

func TestErrField(t *testing.T) {
	assert.Nil(t, Err("error", nil).Value)
	assert.Equal(t, "boom", Err("error", errors.New("boom")).Value)
}

func TestNamedLoggerCarriesName(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", Format: "text", Output: &buf})
	t.Cleanup(func() { Configure(Options{Level: "info", Format: "text"}) })

	Named("repository").Info("deleted", "entity", "movie")
	out := buf.String()
	assert.True(t, strings.Contains(out, "moviecatalog.repository"), out)
	assert.Contains(t, out, "entity=movie")
}
