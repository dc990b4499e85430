// Package partition detects topological splits in vote sets and maps the
// original consensus shape onto smaller decomposed shapes, one per
// detected piece.
package partition

import (
	"errors"
	"fmt"

	"GeoQuorum/internal/consensus"
	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/topology"
)

// ErrIntegrity reports a summary whose pieces overlap or whose vote
// groups diverge from their pieces.
var ErrIntegrity = errors.New("partition summary failed integrity check")

// Summary describes a detected (or absent) partition of a vote set.
type Summary struct {
	// Partitioned reports whether the vote set split into more than one
	// piece.
	Partitioned bool

	// PieceCount is the number of connected pieces (β₀).
	PieceCount int

	// Pieces holds the vote-identifier sets of each piece.
	Pieces [][]string

	// Invariants holds the Betti numbers the detection derives from.
	Invariants topology.Invariants

	// OriginalShape is the shape inferred from the vote count.
	OriginalShape geometry.Kind

	// DecomposedShape is the per-piece shape chosen when partitioned;
	// empty otherwise.
	DecomposedShape geometry.Kind

	// VoteGroups holds the original votes grouped by piece, parallel to
	// Pieces.
	VoteGroups [][]consensus.Vote
}

// Detect analyzes a vote set's agreement graph and summarizes any split.
// An empty vote set reports not partitioned with zero pieces; callers
// must special-case empty inputs rather than rely on the flag alone.
func Detect(votes []consensus.Vote) *Summary {
	vertices, edges := consensus.AgreementGraph(votes)
	inv := topology.Compute(vertices, edges)

	summary := &Summary{
		Partitioned:   inv.Partitioned(),
		PieceCount:    inv.Pieces(),
		Invariants:    inv,
		OriginalShape: inferShape(len(votes)),
	}

	if len(votes) == 0 {
		return summary
	}

	summary.Pieces = topology.Components(vertices, edges)
	summary.VoteGroups = groupVotes(votes, summary.Pieces)

	if summary.Partitioned {
		summary.DecomposedShape = decomposedFor(summary.OriginalShape, summary.PieceCount)
	}

	return summary
}

// Validate is the integrity predicate for a summary: every vote group
// must be pairwise disjoint from the others and their union must equal
// the piece vertex sets. A vote identifier appearing in more than one
// piece is an integrity violation.
func Validate(s *Summary) bool {
	if s == nil {
		return false
	}

	if len(s.Pieces) != len(s.VoteGroups) {
		return false
	}

	seen := make(map[string]bool)
	total := 0

	for i, piece := range s.Pieces {
		if len(piece) != len(s.VoteGroups[i]) {
			return false
		}

		members := make(map[string]bool, len(piece))

		for _, id := range piece {
			if seen[id] {
				return false // Duplicated across pieces
			}

			seen[id] = true
			members[id] = true
			total++
		}

		for _, v := range s.VoteGroups[i] {
			if !members[v.ID] {
				return false
			}
		}
	}

	return total == len(seen)
}

// Check returns ErrIntegrity when Validate rejects the summary.
func Check(s *Summary) error {
	if !Validate(s) {
		return ErrIntegrity
	}

	return nil
}

// groupVotes splits votes into one sub-list per piece, preserving the
// original vote order within each piece.
func groupVotes(votes []consensus.Vote, pieces [][]string) [][]consensus.Vote {
	membership := make(map[string]int, len(votes))

	for i, piece := range pieces {
		for _, id := range piece {
			membership[id] = i
		}
	}

	groups := make([][]consensus.Vote, len(pieces))

	for _, v := range votes {
		i, ok := membership[v.ID]
		if !ok {
			continue
		}

		groups[i] = append(groups[i], v)
	}

	return groups
}

// String renders a short diagnostic form of the summary.
func (s *Summary) String() string {
	if !s.Partitioned {
		return fmt.Sprintf("no partition (%d votes, shape %s)", len(flatten(s.VoteGroups)), s.OriginalShape)
	}

	return fmt.Sprintf("partitioned into %d pieces (shape %s -> %s)",
		s.PieceCount, s.OriginalShape, s.DecomposedShape)
}

// flatten concatenates vote groups.
func flatten(groups [][]consensus.Vote) []consensus.Vote {
	var all []consensus.Vote
	for _, g := range groups {
		all = append(all, g...)
	}

	return all
}
