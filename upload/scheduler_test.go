package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/solrblast/core"
	"github.com/poiesic/solrblast/solr"
	"github.com/poiesic/solrblast/solr/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWorkSet(t *testing.T, n int) (*core.WorkSet, string) {
	t.Helper()
	root := t.TempDir()
	ws := core.NewWorkSet()
	for i := range n {
		p := filepath.Join(root, fmt.Sprintf("doc-%02d.html", i))
		require.NoError(t, os.WriteFile(p, []byte("<p>body</p>"), 0o644))
		ws.Add(p)
	}
	return ws, root
}

func drain(ch <-chan core.Outcome) []core.Outcome {
	var out []core.Outcome
	for o := range ch {
		out = append(out, o)
	}
	return out
}

type recordingMonitor struct {
	core.NoopMonitor
	mu       sync.Mutex
	started  int
	finished int
}

func (r *recordingMonitor) UploadStarted(string) {
	r.mu.Lock()
	r.started++
	r.mu.Unlock()
}

func (r *recordingMonitor) UploadFinished(core.Outcome) {
	r.mu.Lock()
	r.finished++
	r.mu.Unlock()
}

func TestNewScheduler_Defaults(t *testing.T) {
	s, err := NewScheduler(mock.NewMockIndexer())
	require.NoError(t, err)
	assert.Equal(t, core.DefaultConcurrency, s.Concurrency())
}

func TestNewScheduler_InvalidConcurrency(t *testing.T) {
	_, err := NewScheduler(mock.NewMockIndexer(), WithConcurrency(0))
	assert.ErrorIs(t, err, core.ErrInvalidConcurrency)
}

func TestUploadAll_RespectsConcurrency(t *testing.T) {
	ws, _ := makeWorkSet(t, 24)
	idx := mock.NewMockIndexer()
	idx.ExtractFunc = func(ctx context.Context, doc solr.Document) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	}

	s, err := NewScheduler(idx, WithConcurrency(3))
	require.NoError(t, err)

	outcomes := drain(s.UploadAll(context.Background(), ws))
	assert.Len(t, outcomes, 24)
	assert.Equal(t, 24, idx.ExtractCalls())
	assert.LessOrEqual(t, idx.MaxInFlight(), 3)
	assert.GreaterOrEqual(t, idx.MaxInFlight(), 1)
	for _, o := range outcomes {
		assert.True(t, o.Indexed(), o.Path)
	}
}

func TestUploadAll_FailureDoesNotStopOthers(t *testing.T) {
	ws, root := makeWorkSet(t, 5)
	bad := filepath.Join(root, "doc-02.html")
	idx := mock.NewMockIndexer()
	idx.ExtractFunc = func(ctx context.Context, doc solr.Document) error {
		if doc.ID == bad {
			return &solr.TransportError{Op: "extract", Err: errors.New("connection refused")}
		}
		return nil
	}

	mon := &recordingMonitor{}
	s, err := NewScheduler(idx, WithConcurrency(2), WithMonitor(mon))
	require.NoError(t, err)

	outcomes := drain(s.UploadAll(context.Background(), ws))
	require.Len(t, outcomes, 5)

	var failed []core.Outcome
	for _, o := range outcomes {
		if !o.Indexed() {
			failed = append(failed, o)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, bad, failed[0].Path)
	assert.Equal(t, core.StageUpload, failed[0].Stage)
	assert.ErrorIs(t, failed[0].Err, solr.ErrTransport)
	assert.Equal(t, 5, mon.started)
	assert.Equal(t, 5, mon.finished)
}

func TestUploadAll_MissingFileIsResolveFailure(t *testing.T) {
	ws, root := makeWorkSet(t, 1)
	gone := filepath.Join(root, "gone.html")
	ws.Add(gone)

	idx := mock.NewMockIndexer()
	s, err := NewScheduler(idx)
	require.NoError(t, err)

	outcomes := drain(s.UploadAll(context.Background(), ws))
	require.Len(t, outcomes, 2)
	assert.Equal(t, 1, idx.ExtractCalls())

	for _, o := range outcomes {
		if o.Path == gone {
			assert.Equal(t, core.StageResolve, o.Stage)
			assert.ErrorIs(t, o.Err, core.ErrResolve)
			assert.ErrorIs(t, o.Err, os.ErrNotExist)
		}
	}
}

func TestUploadAll_DocumentFields(t *testing.T) {
	ws, root := makeWorkSet(t, 1)
	idx := mock.NewMockIndexer()
	s, err := NewScheduler(idx)
	require.NoError(t, err)

	drain(s.UploadAll(context.Background(), ws))

	docs := idx.Documents()
	require.Len(t, docs, 1)
	want := filepath.Join(root, "doc-00.html")
	assert.Equal(t, want, docs[0].ID)
	assert.Equal(t, want, docs[0].ResourceName)
	assert.Equal(t, "text/html", docs[0].ContentType)
	assert.Equal(t, "<p>body</p>", string(docs[0].Body))
}

func TestUploadAll_Cancelled(t *testing.T) {
	ws, _ := makeWorkSet(t, 4)
	idx := mock.NewMockIndexer()
	s, err := NewScheduler(idx)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := drain(s.UploadAll(ctx, ws))
	require.Len(t, outcomes, 4)
	assert.Zero(t, idx.ExtractCalls())
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func TestUploadAll_EmptyWorkSet(t *testing.T) {
	s, err := NewScheduler(mock.NewMockIndexer())
	require.NoError(t, err)
	assert.Empty(t, drain(s.UploadAll(context.Background(), core.NewWorkSet())))
}

func TestNewDocument_ContentType(t *testing.T) {
	tests := []struct {
		name string
		path string
		body []byte
		want string
	}{
		{"html by extension", "/x/a.HTML", []byte("fragment"), "text/html"},
		{"pdf sniffed", "/x/a.pdf", []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"), "application/pdf"},
		{"plain text sniffed", "/x/a.log", []byte("just a line\n"), "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(tt.path, tt.body)
			assert.True(t, strings.HasPrefix(doc.ContentType, tt.want), doc.ContentType)
			assert.Equal(t, tt.path, doc.ID)
		})
	}
}
