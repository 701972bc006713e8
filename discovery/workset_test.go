package discovery

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/poiesic/solrblast/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(verdicts ...Verdict) <-chan Verdict {
	ch := make(chan Verdict, len(verdicts))
	for _, v := range verdicts {
		ch <- v
	}
	close(ch)
	return ch
}

func TestBuildWorkSet(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.html")
	b := filepath.Join(root, "b.html")
	c := filepath.Join(root, "c.html")
	d := filepath.Join(root, "d.html")

	readErr := &core.ReadError{Path: d, Err: errors.New("permission denied")}
	res := BuildWorkSet(feed(
		Verdict{Path: a},
		Verdict{Path: b, Excluded: true},
		Verdict{Path: c},
		Verdict{Path: filepath.Join(root, "sub", "..", "a.html")},
		Verdict{Path: b, Excluded: true},
		Verdict{Path: d, Err: readErr},
		Verdict{Path: d, Err: readErr},
	))

	assert.Equal(t, []string{a, c}, res.WorkSet.Paths())
	assert.Equal(t, []string{b}, res.Excluded)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, d, res.Failures[0].Path)
	assert.Equal(t, core.StageFilter, res.Failures[0].Stage)
	assert.ErrorIs(t, res.Failures[0].Err, core.ErrRead)
}

func TestBuildWorkSet_Empty(t *testing.T) {
	res := BuildWorkSet(feed())
	assert.Zero(t, res.WorkSet.Len())
	assert.Empty(t, res.Excluded)
	assert.Empty(t, res.Failures)
}

func TestBuildWorkSet_RelativePathsAreAbsolute(t *testing.T) {
	res := BuildWorkSet(feed(Verdict{Path: "rel/x.html"}))
	paths := res.WorkSet.Paths()
	require.Len(t, paths, 1)
	assert.True(t, filepath.IsAbs(paths[0]))
}
