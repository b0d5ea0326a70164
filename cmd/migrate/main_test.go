package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStars(t *testing.T) {
	values, err := parseStars(" 1, 2,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2, 3}, values)

	values, err = parseStars("")
	require.NoError(t, err)
	assert.Nil(t, values)

	_, err = parseStars("1,x")
	assert.Error(t, err)
}
