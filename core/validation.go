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
	"fmt"
	"strings"
)

// DefaultFiletypes is the include list used when none is configured.
const DefaultFiletypes = "xml,json,csv,pdf,doc,docx,ppt,pptx,xls,xlsx,odt,odp,ods,ott,otp,ots,rtf,htm,html,txt,log"

// DefaultConcurrency is the default number of uploads allowed in flight.
const DefaultConcurrency = 8

// ParseFiletypes splits a comma separated extension list.
//
// Rules:
//   - entries are trimmed, lower-cased and stripped of a leading dot
//   - blank entries are ignored
//   - entries containing a path separator or wildcard are rejected
//
// An empty input yields an empty list, which means "accept every extension".
func ParseFiletypes(list string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(list, ",") {
		ext := strings.ToLower(strings.TrimSpace(raw))
		ext = strings.TrimPrefix(ext, ".")
		if ext == "" {
			continue
		}
		if strings.ContainsAny(ext, `/\*?[]{}`) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFiletype, raw)
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out, nil
}

// ValidateConcurrency checks an upload fan-out limit.
func ValidateConcurrency(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, n)
	}
	return nil
}
