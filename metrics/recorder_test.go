package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/solrblast/core"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := NewRecorder()

	r.Matched("/a")
	r.Matched("/b")
	r.Matched("/c")
	r.Excluded("/b")

	r.UploadStarted("/a")
	r.UploadStarted("/c")
	assert.Equal(t, 2.0, testutil.ToFloat64(r.inFlight))

	r.UploadFinished(core.Indexed("/a", 20*time.Millisecond))
	r.UploadFinished(core.Failed("/c", core.StageUpload, errors.New("boom"), 5*time.Millisecond))
	r.Committed(nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.matched))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.excluded))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues("indexed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commits.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.commits.WithLabelValues("error")))
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	a.Matched("/x")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.matched))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.matched))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Matched("/a")
	r.Committed(errors.New("down"))

	path := filepath.Join(t.TempDir(), "solrblast.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "solrblast_files_matched_total 1"), text)
	assert.Contains(t, text, `solrblast_commit_total{outcome="error"} 1`)
}

func TestRecorder_WriteTextfileBadDir(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}

func TestRecorder_Gatherer(t *testing.T) {
	r := NewRecorder()
	r.Matched("/a")
	n, err := testutil.GatherAndCount(r.Gatherer(), "solrblast_files_matched_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
