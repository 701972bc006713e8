// Package discovery turns source patterns into the set of files to index.
//
// Discovery runs in three steps:
//   - Matcher expands glob patterns (doublestar syntax, so ** crosses
//     directories) into candidate paths, skipping entries it cannot visit
//   - Filter reads each candidate on an ants worker pool and drops files that
//     carry a robots "noindex" meta tag
//   - BuildWorkSet merges the verdicts into a deduplicated work set
//
// The filter pool is sized to the CPU count because the work is local disk
// and parsing, unrelated to how many uploads the network side allows.
package discovery
