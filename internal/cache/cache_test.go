package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyArgs struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Limit     int64  `json:"limit"`
}

func TestKey(t *testing.T) {
	a, err := Key("gsc_top_queries", "vesivanov", keyArgs{"2024-01-01", "2024-01-31", 50})
	require.NoError(t, err)
	b, err := Key("gsc_top_queries", "vesivanov", keyArgs{"2024-01-01", "2024-01-31", 50})
	require.NoError(t, err)

	assert.Equal(t, a, b, "same arguments must produce the same key")
	assert.True(t, strings.HasPrefix(a, "ua:report:gsc_top_queries:vesivanov:"))
	assert.Len(t, strings.TrimPrefix(a, "ua:report:gsc_top_queries:vesivanov:"), 64)

	c, err := Key("gsc_top_queries", "vesivanov", keyArgs{"2024-01-01", "2024-01-31", 51})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := Key("gsc_top_queries", "mebelcenter", keyArgs{"2024-01-01", "2024-01-31", 50})
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestKey_Unencodable(t *testing.T) {
	_, err := Key("x", "y", make(chan int))
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))

	val, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
}
