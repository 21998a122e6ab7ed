package service

import (
	"context"
	"testing"

	"chat-moderation-be/pkg/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordServiceRoundTrip(t *testing.T) {
	svc := NewKeywordService(memstore.New())
	ctx := context.Background()

	keywords, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keywords)

	added, err := svc.Add(ctx, "slur1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Add(ctx, "slur1")
	require.NoError(t, err)
	assert.False(t, added, "duplicate add is a no-op")

	added, err = svc.Add(ctx, "slur2")
	require.NoError(t, err)
	assert.True(t, added)

	keywords, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"slur1", "slur2"}, keywords, "insertion order is kept")

	removed, err := svc.Remove(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent keyword is a no-op")

	removed, err = svc.Remove(ctx, "slur1")
	require.NoError(t, err)
	assert.True(t, removed)

	keywords, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"slur2"}, keywords)
}

func TestKeywordServiceMatch(t *testing.T) {
	svc := NewKeywordService(memstore.New())
	ctx := context.Background()

	_, err := svc.Add(ctx, "slur1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		hit     bool
	}{
		{"exact", "slur1", true},
		{"substring", "you are a slur1 and worse", true},
		{"case insensitive", "SLUR1!", true},
		{"clean", "have a nice day", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, hit, err := svc.Match(ctx, tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.Equal(t, "slur1", matched)
			}
		})
	}
}

func TestFlagServiceIncrement(t *testing.T) {
	svc := NewFlagService(memstore.New())
	ctx := context.Background()

	count, err := svc.FlagCount(ctx, "mallory")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.Increment(ctx, "mallory")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = svc.Increment(ctx, "mallory")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = svc.FlagCount(ctx, "mallory")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// counts are per user
	count, err = svc.FlagCount(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)
}
