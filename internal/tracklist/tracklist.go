// Package tracklist extracts track search queries from a mixtape description.
//
// A listing line has the shape
//
//	<index> <artist> -- <title> (YYYY)
//
// one candidate per physical line. The index and year are discarded; lines
// that do not match are ignored. The artist field is non-greedy, so an artist
// containing the literal " -- " delimiter is cut at its first occurrence.
// That ambiguity is inherent to the listing format and kept as-is.
package tracklist

import "regexp"

var lineRe = regexp.MustCompile(`(?m)^(\d+)\s+(.+?) -- (.+?)\s+\(\d{4}\)$`)

// TrackQuery is a single extracted listing line.
type TrackQuery struct {
	Artist string
	Title  string
}

// Query returns the canonical search text for the query.
//
// Case, punctuation, and diacritics pass through verbatim; normalization is
// left to the search backend.
func (q TrackQuery) Query() string {
	return q.Artist + " " + q.Title
}

// Parse extracts the track listing from free-form description text.
//
// Output order follows line order in the input. Parse never fails: arbitrary
// text, including the empty string, yields a possibly-empty slice.
func Parse(text string) []TrackQuery {
	var queries []TrackQuery
	for _, m := range lineRe.FindAllStringSubmatch(text, -1) {
		queries = append(queries, TrackQuery{Artist: m[2], Title: m[3]})
	}
	return queries
}
