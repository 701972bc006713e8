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


package core

import (
	"errors"
	"fmt"
)

// Pipeline error kinds
var (
	// ErrInvalidPattern indicates a glob pattern could not be parsed.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrEmptyPattern indicates an empty source pattern.
	ErrEmptyPattern = errors.New("pattern cannot be empty")

	// ErrScan indicates a filesystem entry could not be visited during discovery.
	ErrScan = errors.New("filesystem scan error")

	// ErrRead indicates a file could not be opened or read.
	ErrRead = errors.New("file read error")

	// ErrResolve indicates a work item no longer resolves to an existing file.
	ErrResolve = errors.New("path resolution error")

	// ErrCommit indicates the final commit request failed.
	ErrCommit = errors.New("commit failed")

	// ErrInvalidConcurrency indicates a non-positive concurrency limit.
	ErrInvalidConcurrency = errors.New("concurrency must be greater than 0")

	// ErrInvalidFiletype indicates a malformed entry in the filetypes list.
	ErrInvalidFiletype = errors.New("invalid filetype")
)

// PatternError is returned for a malformed glob. It is fatal to the run and is
// always raised before the filesystem is touched.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}

// FsScanError reports a single filesystem entry skipped during discovery.
type FsScanError struct {
	Path string
	Err  error
}

func (e *FsScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *FsScanError) Unwrap() []error {
	return []error{ErrScan, e.Err}
}

// ReadError reports a file that could not be read during filtering or upload.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrRead, e.Err}
}

// ResolveError reports a work item whose absolute path no longer exists.
type ResolveError struct {
	Path string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Path, e.Err)
}

func (e *ResolveError) Unwrap() []error {
	return []error{ErrResolve, e.Err}
}

// CommitError wraps a failed commit. It is fatal to the run.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit: %v", e.Err)
}

func (e *CommitError) Unwrap() []error {
	return []error{ErrCommit, e.Err}
}
