// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package mock provides a test double for solr.Indexer.
package mock

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/solrblast/solr"
)

// MockIndexer is a test double for solr.Indexer.
// It allows custom behavior injection via function fields and records every
// extracted document. It also tracks how many Extract calls are outstanding,
// which lets tests check the upload fan-out ceiling and that Commit never
// overlaps an upload.
type MockIndexer struct {
	// ExtractFunc is called by Extract if set. If nil, Extract succeeds.
	ExtractFunc func(ctx context.Context, doc solr.Document) error

	// CommitFunc is called by Commit if set. If nil, Commit succeeds.
	CommitFunc func(ctx context.Context) error

	// PingFunc is called by Ping if set. If nil, Ping succeeds.
	PingFunc func(ctx context.Context) error

	inFlight         atomic.Int64
	maxInFlight      atomic.Int64
	inFlightAtCommit atomic.Int64
	extractCalls     atomic.Int64
	commitCalls      atomic.Int64
	pingCalls        atomic.Int64

	mu   sync.Mutex
	docs []solr.Document
}

var _ solr.Indexer = (*MockIndexer)(nil)

// NewMockIndexer creates a mock indexer where every call succeeds.
// Note: Returns concrete type to allow test assertions.
func NewMockIndexer() *MockIndexer {
	return &MockIndexer{}
}

// Extract records doc and runs ExtractFunc.
func (m *MockIndexer) Extract(ctx context.Context, doc solr.Document) error {
	m.extractCalls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	m.mu.Lock()
	m.docs = append(m.docs, doc)
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, doc)
	}
	return nil
}

// Commit records how many extracts were outstanding and runs CommitFunc.
func (m *MockIndexer) Commit(ctx context.Context) error {
	m.commitCalls.Add(1)
	m.inFlightAtCommit.Store(m.inFlight.Load())
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

// Ping runs PingFunc.
func (m *MockIndexer) Ping(ctx context.Context) error {
	m.pingCalls.Add(1)
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Close is a no-op.
func (m *MockIndexer) Close() error {
	return nil
}

// ExtractCalls returns the number of Extract calls.
func (m *MockIndexer) ExtractCalls() int {
	return int(m.extractCalls.Load())
}

// CommitCalls returns the number of Commit calls.
func (m *MockIndexer) CommitCalls() int {
	return int(m.commitCalls.Load())
}

// PingCalls returns the number of Ping calls.
func (m *MockIndexer) PingCalls() int {
	return int(m.pingCalls.Load())
}

// MaxInFlight returns the highest number of concurrent Extract calls observed.
func (m *MockIndexer) MaxInFlight() int {
	return int(m.maxInFlight.Load())
}

// InFlightAtCommit returns the number of Extract calls outstanding when
// Commit was last called.
func (m *MockIndexer) InFlightAtCommit() int {
	return int(m.inFlightAtCommit.Load())
}

// Documents returns the extracted documents sorted by ID.
func (m *MockIndexer) Documents() []solr.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.docs)
	slices.SortFunc(out, func(a, b solr.Document) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// DocumentIDs returns the sorted IDs of every extracted document.
func (m *MockIndexer) DocumentIDs() []string {
	docs := m.Documents()
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

// Reset clears counters, recorded documents and injected behavior.
func (m *MockIndexer) Reset() {
	m.mu.Lock()
	m.docs = nil
	m.mu.Unlock()
	m.extractCalls.Store(0)
	m.commitCalls.Store(0)
	m.pingCalls.Store(0)
	m.maxInFlight.Store(0)
	m.inFlightAtCommit.Store(0)
	m.ExtractFunc = nil
	m.CommitFunc = nil
	m.PingFunc = nil
}
