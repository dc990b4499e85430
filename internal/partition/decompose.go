package partition

import (
	"fmt"

	"GeoQuorum/internal/geometry"
)

// shapeByVoteCount infers the original consensus shape from the size of a
// vote set. Ambiguous counts resolve to the listed entry; unmapped counts
// default to the cube.
var shapeByVoteCount = map[int]geometry.Kind{
	1:   geometry.Point,
	2:   geometry.Line,
	3:   geometry.Triangle,
	4:   geometry.Tetrahedron,
	5:   geometry.FiveCell,
	6:   geometry.Octahedron,
	8:   geometry.Cube,
	12:  geometry.Icosahedron,
	16:  geometry.Tesseract,
	20:  geometry.Dodecahedron,
	24:  geometry.TwentyFourCell,
	120: geometry.SixHundredCell,
	600: geometry.OneTwentyCell,
}

// decompositions maps each original shape to a table keyed by piece
// count. Selection picks the largest key that does not exceed the actual
// piece count; counts above every key fall through to the generic
// vertex-range rule. Every catalog kind must have an entry (possibly
// empty) — checked at init so a new shape cannot silently fall through.
var decompositions = map[geometry.Kind]map[int]geometry.Kind{
	geometry.Point:    {},
	geometry.Line:     {2: geometry.Point},
	geometry.Triangle: {3: geometry.Point},
	geometry.Tetrahedron: {
		2: geometry.Line,
		4: geometry.Point,
	},
	geometry.Octahedron: {
		2: geometry.Triangle,
		3: geometry.Line,
		6: geometry.Point,
	},
	geometry.Cube: {
		2: geometry.Tetrahedron,
		4: geometry.Line,
		8: geometry.Point,
	},
	geometry.Icosahedron: {
		2: geometry.Octahedron,
		3: geometry.Tetrahedron,
		4: geometry.Triangle,
		6: geometry.Line,
	},
	geometry.Dodecahedron: {
		2:  geometry.Cube,
		4:  geometry.FiveCell,
		5:  geometry.Tetrahedron,
		10: geometry.Line,
	},
	geometry.Cuboctahedron: {
		2: geometry.Octahedron,
		3: geometry.Tetrahedron,
		4: geometry.Triangle,
	},
	geometry.FiveCell: {
		5: geometry.Point,
	},
	geometry.Tesseract: {
		2: geometry.Cube,
		4: geometry.Tetrahedron,
		8: geometry.Line,
	},
	geometry.SixteenCell: {
		2: geometry.Tetrahedron,
		4: geometry.Line,
	},
	geometry.TwentyFourCell: {
		2: geometry.Icosahedron,
		3: geometry.Cube,
		6: geometry.Tetrahedron,
	},
	geometry.OneTwentyCell: {
		2: geometry.SixHundredCell,
	},
	geometry.SixHundredCell: {
		2: geometry.Octahedron,
	},
}

func init() {
	for _, kind := range geometry.Kinds() {
		if _, ok := decompositions[kind]; !ok {
			panic(fmt.Sprintf("partition: no decomposition entry for shape %s", kind))
		}
	}
}

// inferShape maps a vote count to the original shape.
func inferShape(voteCount int) geometry.Kind {
	if kind, ok := shapeByVoteCount[voteCount]; ok {
		return kind
	}

	return geometry.Cube
}

// decomposedFor selects the per-piece shape for a partitioned vote set:
// the table entry under the largest key not exceeding pieceCount. Counts
// above every key, or below the smallest, use the generic vertex-range
// rule.
func decomposedFor(original geometry.Kind, pieceCount int) geometry.Kind {
	table := decompositions[original]

	bestKey, maxKey := 0, 0
	for key := range table {
		if key > maxKey {
			maxKey = key
		}
		if key <= pieceCount && key > bestKey {
			bestKey = key
		}
	}

	// Counts beyond every key (or below the smallest) leave the table.
	if bestKey == 0 || pieceCount > maxKey {
		return genericDecomposition(original, pieceCount)
	}

	return table[bestKey]
}

// genericDecomposition picks a decomposed shape from the per-piece vertex
// budget floor(V/pieceCount).
func genericDecomposition(original geometry.Kind, pieceCount int) geometry.Kind {
	shape, err := geometry.Lookup(original)
	if err != nil || pieceCount <= 0 {
		return geometry.Point
	}

	perPiece := shape.Vertices / pieceCount

	switch {
	case perPiece >= 20:
		return geometry.Dodecahedron
	case perPiece >= 12:
		return geometry.Icosahedron
	case perPiece >= 8:
		return geometry.Cube
	case perPiece >= 6:
		return geometry.Octahedron
	case perPiece >= 4:
		return geometry.Tetrahedron
	case perPiece >= 3:
		return geometry.Triangle
	case perPiece >= 2:
		return geometry.Line
	default:
		return geometry.Point
	}
}
