package discovery

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/poiesic/solrblast/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasExclusionMarker(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"plain noindex", `<html><head><meta name="robots" content="noindex"></head></html>`, true},
		{"token list", `<meta name="robots" content="nofollow, noindex">`, true},
		{"upper case", `<META NAME="ROBOTS" CONTENT="NOINDEX">`, true},
		{"attribute order", `<meta content="noindex" name="robots">`, true},
		{"no marker", `<html><head><title>x</title></head></html>`, false},
		{"other robots value", `<meta name="robots" content="nofollow">`, false},
		{"different meta name", `<meta name="googlebot" content="noindex">`, false},
		{"word in body", `<p>please noindex this</p>`, false},
		{"binary", "%PDF-1.7\x00\x01\x02", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasExclusionMarker([]byte(tt.content)))
		})
	}
}

func TestIsExcluded(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.html": "<p>hi</p>",
		"drop.html": `<meta name="robots" content="noindex">`,
	})

	excluded, err := IsExcluded(filepath.Join(root, "drop.html"))
	require.NoError(t, err)
	assert.True(t, excluded)

	excluded, err = IsExcluded(filepath.Join(root, "keep.html"))
	require.NoError(t, err)
	assert.False(t, excluded)

	_, err = IsExcluded(filepath.Join(root, "missing.html"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRead)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilter_Classify(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.html": "<p>a</p>",
		"b.html": `<meta name="robots" content="noindex">`,
		"c.html": "<p>c</p>",
	})

	f, err := NewFilter(WithPoolSize(2))
	require.NoError(t, err)
	defer f.Release()

	candidates := slices.Values([]string{
		filepath.Join(root, "a.html"),
		filepath.Join(root, "b.html"),
		filepath.Join(root, "c.html"),
		filepath.Join(root, "gone.html"),
	})

	got := map[string]Verdict{}
	for v := range f.Classify(context.Background(), candidates) {
		got[filepath.Base(v.Path)] = v
	}

	require.Len(t, got, 4)
	assert.False(t, got["a.html"].Excluded)
	assert.True(t, got["b.html"].Excluded)
	assert.False(t, got["c.html"].Excluded)
	assert.ErrorIs(t, got["gone.html"].Err, core.ErrRead)
}

func TestFilter_ClassifyCancelled(t *testing.T) {
	f, err := NewFilter()
	require.NoError(t, err)
	defer f.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count := 0
	for range f.Classify(ctx, slices.Values([]string{"a", "b"})) {
		count++
	}
	assert.Zero(t, count)
}

func TestNewFilter_PoolSizeFloor(t *testing.T) {
	f, err := NewFilter(WithPoolSize(0))
	require.NoError(t, err)
	defer f.Release()
	assert.Equal(t, 1, f.poolSize)
}
