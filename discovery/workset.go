package discovery

import (
	"path/filepath"
	"slices"

	"github.com/poiesic/solrblast/core"
)

// BuildResult is what the work set builder hands to the uploader.
type BuildResult struct {
	WorkSet  *core.WorkSet
	Excluded []string       // Distinct excluded paths, sorted
	Failures []core.Outcome // Candidates whose exclusion check failed
}

// BuildWorkSet drains verdicts and collects every non-excluded, readable
// candidate into a deduplicated work set keyed by absolute path.
//
// It is the single consumer of the verdict stream, so no locking is needed.
// A path reported more than once is kept once; a failed verdict is turned into
// a failed outcome at the filter stage and never enters the work set.
func BuildWorkSet(verdicts <-chan Verdict) BuildResult {
	ws := core.NewWorkSet()
	excluded := make(map[string]struct{})
	failed := make(map[string]struct{})
	var failures []core.Outcome

	for v := range verdicts {
		key := canonical(v.Path)
		switch {
		case v.Err != nil:
			if _, dup := failed[key]; dup {
				continue
			}
			failed[key] = struct{}{}
			failures = append(failures, core.Failed(key, core.StageFilter, v.Err, 0))
		case v.Excluded:
			excluded[key] = struct{}{}
		default:
			ws.Add(key)
		}
	}

	out := make([]string, 0, len(excluded))
	for p := range excluded {
		out = append(out, p)
	}
	slices.Sort(out)

	return BuildResult{WorkSet: ws, Excluded: out, Failures: failures}
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
