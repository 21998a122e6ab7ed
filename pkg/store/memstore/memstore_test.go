package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissingDocument(t *testing.T) {
	s := New()
	doc, exists, err := s.GetDocument(context.Background(), "config", "keywords")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, doc)
}

func TestSetThenGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDocument(ctx, "config", "keywords", map[string]interface{}{
		"keywords_list": []interface{}{"slur1"},
	}))

	doc, exists, err := s.GetDocument(ctx, "config", "keywords")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, []interface{}{"slur1"}, doc["keywords_list"])
}

func TestSetReplacesWholeDocument(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDocument(ctx, "config", "keywords", map[string]interface{}{"a": 1}))
	require.NoError(t, s.SetDocument(ctx, "config", "keywords", map[string]interface{}{"b": 2}))

	doc, _, err := s.GetDocument(ctx, "config", "keywords")
	require.NoError(t, err)
	assert.NotContains(t, doc, "a")
	assert.Equal(t, 2, doc["b"])
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDocument(ctx, "users", "mallory", map[string]interface{}{"flag_counts": int64(1)}))

	doc, _, err := s.GetDocument(ctx, "users", "mallory")
	require.NoError(t, err)
	doc["flag_counts"] = int64(99)

	doc, _, err = s.GetDocument(ctx, "users", "mallory")
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc["flag_counts"])
}

func TestIncrement(t *testing.T) {
	s := New()
	ctx := context.Background()

	n, err := s.Increment(ctx, "users", "mallory", "flag_counts")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Increment(ctx, "users", "mallory", "flag_counts")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// incrementing leaves other fields alone
	require.NoError(t, s.SetDocument(ctx, "users", "alice", map[string]interface{}{"name": "alice"}))
	n, err = s.Increment(ctx, "users", "alice", "flag_counts")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	doc, _, err := s.GetDocument(ctx, "users", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc["name"])
}
