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


// Package solr defines the contract with the remote document-indexing service.
//
// The service exposes three endpoints relative to a collection base URL:
//
//   - POST {base}/update/extract?resource.name=...&literal.id=...  (Extract)
//   - GET  {base}/update?commit=true                                (Commit)
//   - GET  {base}/admin/ping                                        (Ping)
//
// # Implementation Packages
//
//   - solr/rest: production client over net/http
//   - solr/mock: test double with injectable behavior and call accounting
//
// As in the rest of the module, the production constructor (rest.NewClient)
// returns the Indexer interface, while mock.NewMockIndexer returns the concrete
// type so tests can inspect recorded documents and in-flight counts.
//
// # Usage Example
//
//	cfg := solr.NewConfig(solr.WithCollection("http://localhost:8983", "portal"))
//	idx, err := rest.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer idx.Close()
//
//	if err := idx.Ping(ctx); err != nil {
//	    log.Fatal(err)
//	}
package solr
