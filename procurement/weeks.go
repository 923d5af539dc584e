package procurement

import (
	"errors"
	"sort"
)

var (
	// ErrInsufficientHistory means no week precedes the target, so no average can be formed.
	ErrInsufficientHistory = errors.New("not enough historical data to calculate running average")
	// ErrUnknownWeek means the requested week is not among the known sales weeks.
	ErrUnknownWeek = errors.New("unknown sales week")
	// ErrNoWeeks means the warehouse holds no dated sales at all.
	ErrNoWeeks = errors.New("no sales weeks available")
)

// ResolvePriorWeeks returns up to n weeks strictly preceding target, most recent
// first. known may be in any order; labels sort chronologically as strings.
// Fewer than n weeks are returned when history is short.
func ResolvePriorWeeks(known []string, target string, n int) ([]string, error) {
	weeks := append([]string(nil), known...)
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))

	idx := -1
	for i, w := range weeks {
		if w == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUnknownWeek
	}

	var prior []string
	for _, w := range weeks[idx+1:] {
		if len(prior) == n {
			break
		}
		// known may repeat labels
		if w == target || (len(prior) > 0 && prior[len(prior)-1] == w) {
			continue
		}
		prior = append(prior, w)
	}
	if len(prior) == 0 {
		return nil, ErrInsufficientHistory
	}
	return prior, nil
}
