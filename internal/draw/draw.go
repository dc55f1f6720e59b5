// Package draw implements the secret friend draw: a uniformly random
// assignment of givers to receivers in which nobody draws themselves.
package draw

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrTooFewParticipants   = errors.New("a draw needs at least 2 participants")
	ErrDuplicateParticipant = errors.New("participant names must be unique")
	ErrNoDerangement        = errors.New("could not find a valid draw")
)

// maxAttempts bounds the rejection-sampling loop. The expected number of
// shuffles before a derangement shows up is ~e regardless of group size,
// so hitting this bound means the RNG is broken.
const maxAttempts = 1000

// Assign pairs every participant with another participant as their secret
// friend. The result is a permutation of names with no fixed points: each
// name gives exactly once, receives exactly once, and never draws itself.
//
// Assignments are sampled uniformly from all derangements by shuffling and
// rejecting any shuffle that maps a name to itself. Attempts returns how many
// shuffles were needed, which feeds the draw_attempts metric.
func Assign(names []string) (map[string]string, error) {
	assignments, _, err := assign(names)
	return assignments, err
}

// AssignCounted is Assign plus the number of shuffle attempts used.
func AssignCounted(names []string) (map[string]string, int, error) {
	return assign(names)
}

func assign(names []string) (map[string]string, int, error) {
	if len(names) < 2 {
		return nil, 0, fmt.Errorf("%w: got %d", ErrTooFewParticipants, len(names))
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, 0, fmt.Errorf("%w: %q appears twice", ErrDuplicateParticipant, name)
		}
		seen[name] = struct{}{}
	}

	receivers := make([]string, len(names))
	copy(receivers, names)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		rand.Shuffle(len(receivers), func(i, j int) {
			receivers[i], receivers[j] = receivers[j], receivers[i]
		})
		if hasFixedPoint(names, receivers) {
			continue
		}
		assignments := make(map[string]string, len(names))
		for i, giver := range names {
			assignments[giver] = receivers[i]
		}
		return assignments, attempt, nil
	}
	return nil, maxAttempts, ErrNoDerangement
}

func hasFixedPoint(names, receivers []string) bool {
	for i := range names {
		if names[i] == receivers[i] {
			return true
		}
	}
	return false
}
