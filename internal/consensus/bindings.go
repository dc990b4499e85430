package consensus

import "GeoQuorum/internal/geometry"

// Fixed bindings of the generic verifier to specific catalog shapes, one
// per requirement level and tier. They are conveniences, not independent
// algorithms.

// MustLocal verifies against the tetrahedron (MUST_LOCAL, threshold 1.0).
func MustLocal(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.Tetrahedron, description)
}

// ShouldLocal verifies against the octahedron (SHOULD_LOCAL, threshold 0.833).
func ShouldLocal(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.Octahedron, description)
}

// MayLocal verifies against the cube (MAY_LOCAL, threshold 0.75).
func MayLocal(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.Cube, description)
}

// MustFederation verifies against the icosahedron (MUST_FEDERATION).
func MustFederation(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.Icosahedron, description)
}

// ShouldFederation verifies against the dodecahedron (SHOULD_FEDERATION).
func ShouldFederation(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.Dodecahedron, description)
}

// MayFederation verifies against the cuboctahedron (MAY_FEDERATION).
func MayFederation(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.Cuboctahedron, description)
}

// MustGlobal verifies against the 600-cell (MUST_GLOBAL).
func MustGlobal(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.SixHundredCell, description)
}

// ShouldGlobal verifies against the 120-cell (SHOULD_GLOBAL).
func ShouldGlobal(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.OneTwentyCell, description)
}

// MayGlobal verifies against the 24-cell (MAY_GLOBAL).
func MayGlobal(votes []Vote, description string) *Certificate {
	return Verify(votes, geometry.TwentyFourCell, description)
}
