// Package geometry holds the fixed catalog of consensus shapes: regular
// and semi-regular polyhedra plus their 4-dimensional analogues. Each
// shape binds a combinatorial structure (vertex, edge and face counts) to
// an agreement threshold and a usage tier. The catalog is constant data,
// validated once at init and read-only afterwards, so it is safe for
// unsynchronized concurrent reads.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Kind identifies a shape in the catalog.
type Kind string

// Catalog shape kinds.
const (
	Point          Kind = "point"
	Line           Kind = "line"
	Triangle       Kind = "triangle"
	Tetrahedron    Kind = "tetrahedron"
	Cube           Kind = "cube"
	Octahedron     Kind = "octahedron"
	Dodecahedron   Kind = "dodecahedron"
	Icosahedron    Kind = "icosahedron"
	Cuboctahedron  Kind = "cuboctahedron"
	FiveCell       Kind = "five-cell"
	Tesseract      Kind = "tesseract"
	SixteenCell    Kind = "sixteen-cell"
	TwentyFourCell Kind = "twenty-four-cell"
	OneTwentyCell  Kind = "one-twenty-cell"
	SixHundredCell Kind = "six-hundred-cell"
)

// Tier classifies where a shape's threshold is meant to be applied.
type Tier string

// Usage tiers.
const (
	TierLocal      Tier = "local"
	TierFederation Tier = "federation"
	TierGlobal     Tier = "global"
)

// ErrUnknownShape is returned when a kind is not in the catalog.
var ErrUnknownShape = errors.New("unknown shape kind")

// ErrNoDual is returned when a shape declares no dual.
var ErrNoDual = errors.New("shape has no declared dual")

// Shape is an immutable catalog entry.
type Shape struct {
	Kind      Kind    // Kind is the catalog identifier
	Name      string  // Name is the display name
	Vertices  int     // Vertices is the vertex count V
	Edges     int     // Edges is the edge count E
	Faces     int     // Faces is the 2-face count F
	Threshold float64 // Threshold is the required agreement ratio in [0,1]
	Dual      Kind    // Dual is the declared dual kind; empty means none
	SelfDual  bool    // SelfDual marks shapes that are their own dual
	Dimension int     // Dimension is 0 through 4
	Tier      Tier    // Tier is the usage tier
}

// catalog is the fixed shape table. For 4-polytopes V, E and F count the
// vertices, edges and 2-faces; cells are not tracked, so duality in 4D
// exchanges vertices with cells rather than with F.
var catalog = map[Kind]Shape{
	Point: {
		Kind: Point, Name: "Point",
		Vertices: 1, Edges: 0, Faces: 0,
		Threshold: 1.0, Dual: Point, SelfDual: true,
		Dimension: 0, Tier: TierLocal,
	},
	Line: {
		Kind: Line, Name: "Line Segment",
		Vertices: 2, Edges: 1, Faces: 0,
		Threshold: 1.0, Dual: Line, SelfDual: true,
		Dimension: 1, Tier: TierLocal,
	},
	Triangle: {
		Kind: Triangle, Name: "Triangle",
		Vertices: 3, Edges: 3, Faces: 1,
		Threshold: 1.0, Dual: Triangle, SelfDual: true,
		Dimension: 2, Tier: TierLocal,
	},
	Tetrahedron: {
		Kind: Tetrahedron, Name: "Tetrahedron",
		Vertices: 4, Edges: 6, Faces: 4,
		Threshold: 1.0, Dual: Tetrahedron, SelfDual: true,
		Dimension: 3, Tier: TierLocal,
	},
	Octahedron: {
		Kind: Octahedron, Name: "Octahedron",
		Vertices: 6, Edges: 12, Faces: 8,
		Threshold: 0.833, Dual: Cube, SelfDual: false,
		Dimension: 3, Tier: TierLocal,
	},
	Cube: {
		Kind: Cube, Name: "Cube",
		Vertices: 8, Edges: 12, Faces: 6,
		Threshold: 0.75, Dual: Octahedron, SelfDual: false,
		Dimension: 3, Tier: TierLocal,
	},
	Icosahedron: {
		Kind: Icosahedron, Name: "Icosahedron",
		Vertices: 12, Edges: 30, Faces: 20,
		Threshold: 1.0, Dual: Dodecahedron, SelfDual: false,
		Dimension: 3, Tier: TierFederation,
	},
	Dodecahedron: {
		Kind: Dodecahedron, Name: "Dodecahedron",
		Vertices: 20, Edges: 30, Faces: 12,
		Threshold: 0.85, Dual: Icosahedron, SelfDual: false,
		Dimension: 3, Tier: TierFederation,
	},
	// The cuboctahedron's dual (the rhombic dodecahedron) is not a
	// catalog shape, so no dual is declared.
	Cuboctahedron: {
		Kind: Cuboctahedron, Name: "Cuboctahedron",
		Vertices: 12, Edges: 24, Faces: 14,
		Threshold: 0.75, Dual: "", SelfDual: false,
		Dimension: 3, Tier: TierFederation,
	},
	FiveCell: {
		Kind: FiveCell, Name: "5-Cell",
		Vertices: 5, Edges: 10, Faces: 10,
		Threshold: 1.0, Dual: FiveCell, SelfDual: true,
		Dimension: 4, Tier: TierGlobal,
	},
	Tesseract: {
		Kind: Tesseract, Name: "Tesseract",
		Vertices: 16, Edges: 32, Faces: 24,
		Threshold: 0.75, Dual: SixteenCell, SelfDual: false,
		Dimension: 4, Tier: TierGlobal,
	},
	SixteenCell: {
		Kind: SixteenCell, Name: "16-Cell",
		Vertices: 8, Edges: 24, Faces: 32,
		Threshold: 0.833, Dual: Tesseract, SelfDual: false,
		Dimension: 4, Tier: TierGlobal,
	},
	TwentyFourCell: {
		Kind: TwentyFourCell, Name: "24-Cell",
		Vertices: 24, Edges: 96, Faces: 96,
		Threshold: 0.75, Dual: TwentyFourCell, SelfDual: true,
		Dimension: 4, Tier: TierGlobal,
	},
	OneTwentyCell: {
		Kind: OneTwentyCell, Name: "120-Cell",
		Vertices: 600, Edges: 1200, Faces: 720,
		Threshold: 0.8, Dual: SixHundredCell, SelfDual: false,
		Dimension: 4, Tier: TierGlobal,
	},
	SixHundredCell: {
		Kind: SixHundredCell, Name: "600-Cell",
		Vertices: 120, Edges: 720, Faces: 1200,
		Threshold: 1.0, Dual: OneTwentyCell, SelfDual: false,
		Dimension: 4, Tier: TierGlobal,
	},
}

func init() {
	if err := ValidateCatalog(); err != nil {
		panic(fmt.Sprintf("geometry: invalid catalog: %v", err))
	}
}

// ValidateCatalog checks the catalog's structural invariants: Euler's
// formula V-E+F=2 for every 3-dimensional entry, resolvable dual
// references, and self-dual entries pointing at themselves.
func ValidateCatalog() error {
	for kind, s := range catalog {
		if s.Kind != kind {
			return fmt.Errorf("entry %s declares kind %s", kind, s.Kind)
		}

		if s.Dimension == 3 {
			if chi := s.Vertices - s.Edges + s.Faces; chi != 2 {
				return fmt.Errorf("%s violates Euler's formula: V-E+F = %d", kind, chi)
			}
		}

		if s.Threshold < 0 || s.Threshold > 1 {
			return fmt.Errorf("%s threshold %v outside [0,1]", kind, s.Threshold)
		}

		if s.SelfDual && s.Dual != kind {
			return fmt.Errorf("%s is self-dual but declares dual %s", kind, s.Dual)
		}

		if s.Dual != "" {
			if _, ok := catalog[s.Dual]; !ok {
				return fmt.Errorf("%s declares unknown dual %s", kind, s.Dual)
			}
		}
	}

	return nil
}

// Lookup resolves a kind against the catalog.
func Lookup(kind Kind) (Shape, error) {
	s, ok := catalog[kind]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, kind)
	}

	return s, nil
}

// Kinds returns every catalog kind in sorted order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(catalog))
	for k := range catalog {
		kinds = append(kinds, k)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

// DualOf returns the dual of a shape. Self-dual shapes return themselves.
// The second result is false when the shape declares no dual.
func DualOf(s Shape) (Shape, bool) {
	if s.SelfDual {
		return s, true
	}

	if s.Dual == "" {
		return Shape{}, false
	}

	dual, ok := catalog[s.Dual]

	return dual, ok
}

// RequiredAgreement returns the number of agreeing votes a shape demands:
// ceil(V * threshold).
func RequiredAgreement(s Shape) int {
	product := float64(s.Vertices) * s.Threshold

	// Binary float drift must not push an exact product past its ceiling
	// (e.g. 20 * 0.85 evaluating to 17.000000000000002).
	if nearest := math.Round(product); math.Abs(product-nearest) < 1e-9 {
		return int(nearest)
	}

	return int(math.Ceil(product))
}

// IsSatisfied reports whether agreeCount meets the shape's requirement.
func IsSatisfied(s Shape, agreeCount int) bool {
	return agreeCount >= RequiredAgreement(s)
}

// KeywordFor derives a requirement-level label from the shape's threshold
// magnitude and tier, e.g. MUST_LOCAL or SHOULD_FEDERATION.
func KeywordFor(s Shape) string {
	tier := strings.ToUpper(string(s.Tier))

	switch {
	case s.Threshold >= 1.0:
		return "MUST_" + tier
	case s.Threshold >= 0.8:
		return "SHOULD_" + tier
	default:
		return "MAY_" + tier
	}
}

// MapThresholdViaDual resolves a shape's dual and the threshold-mapping
// factor used by partition recovery. Self-dual shapes map with factor 1.0
// and keep their threshold unchanged. Otherwise the factor is the dual's
// vertex count over the original's face count, clamped to [0,1], and
// becomes the unified threshold.
func MapThresholdViaDual(s Shape) (Shape, float64, error) {
	dual, ok := DualOf(s)
	if !ok {
		return Shape{}, 0, fmt.Errorf("%w: %s", ErrNoDual, s.Kind)
	}

	if s.SelfDual {
		return dual, 1.0, nil
	}

	factor := float64(dual.Vertices) / float64(s.Faces)
	if factor > 1.0 {
		factor = 1.0
	}
	if factor < 0 {
		factor = 0
	}

	return dual, factor, nil
}

// UnifiedThreshold returns the threshold a recovered certificate must
// meet: the shape's own threshold when self-dual, the dual-mapping factor
// otherwise.
func UnifiedThreshold(s Shape) (float64, error) {
	_, factor, err := MapThresholdViaDual(s)
	if err != nil {
		return 0, err
	}

	if s.SelfDual {
		return s.Threshold, nil
	}

	return factor, nil
}
