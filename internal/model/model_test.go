package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	for _, raw := range []string{"", "Building", "BOUNDARY", "lawn", "park ing"} {
		_, err := ParseCategory(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestNewRecordID(t *testing.T) {
	t.Parallel()

	a := NewRecordID()
	b := NewRecordID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
