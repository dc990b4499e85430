// Package consensus verifies vote sets against catalog shapes and issues
// certificates. Verification is a pure function of its inputs: it holds
// no state between calls and touches nothing but the read-only shape
// catalog, so independent verifications may run concurrently.
package consensus

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/topology"
)

// Verify checks a vote set against a catalog shape and issues a
// certificate. A shape resolution failure never escapes as an error: it
// degrades into an invalid certificate carrying the failure text in its
// proof narrative.
func Verify(votes []Vote, kind geometry.Kind, description string) *Certificate {
	cert := &Certificate{
		ID:          uuid.NewString(),
		Shape:       kind,
		Description: description,
		Votes:       votes,
		IssuedAt:    time.Now(),
	}

	shape, err := geometry.Lookup(kind)
	if err != nil {
		cert.Proof = fmt.Sprintf("verification failed: %v", err)
		return cert
	}

	cert.ShapeRecord = shape
	cert.Threshold = shape.Threshold
	cert.AgreeCount = countAgreeing(votes)

	if len(votes) == 0 {
		// An empty vote set cannot satisfy a positive threshold on an
		// absent vertex; required count stays 0 and validity stays false.
		cert.Proof = renderEmptyProof(shape)
		return cert
	}

	cert.RequiredCount = geometry.RequiredAgreement(shape)
	cert.Valid = geometry.IsSatisfied(shape, cert.AgreeCount)

	vertices, edges := AgreementGraph(votes)
	inv := topology.Compute(vertices, edges)
	cert.Invariants = &inv
	cert.Partitioned = inv.Partitioned()
	cert.PieceCount = inv.Pieces()

	cert.Proof = renderProof(cert, shape)

	return cert
}

// AgreementGraph builds the consensus graph over vote identifiers: an
// edge connects any two votes with identical agreement value. The result
// is at most two cliques (agreers and disagreers), so any non-empty vote
// set yields one or two connected pieces.
func AgreementGraph(votes []Vote) ([]string, []topology.Edge) {
	vertices := make([]string, len(votes))
	for i, v := range votes {
		vertices[i] = v.ID
	}

	var edges []topology.Edge

	for i := 0; i < len(votes); i++ {
		for j := i + 1; j < len(votes); j++ {
			if votes[i].Agree == votes[j].Agree {
				edges = append(edges, topology.Edge{A: votes[i].ID, B: votes[j].ID})
			}
		}
	}

	return vertices, edges
}

// renderProof builds the certificate's proof narrative: the threshold
// check, the algebraic ratio comparison, and the shape's structural
// metadata.
func renderProof(cert *Certificate, shape geometry.Shape) string {
	var b strings.Builder

	verdict := "NOT SATISFIED"
	if cert.Valid {
		verdict = "SATISFIED"
	}

	fmt.Fprintf(&b, "%s consensus over %q: %s\n",
		geometry.KeywordFor(shape), cert.Description, verdict)
	fmt.Fprintf(&b, "threshold check: %d of %d votes agree, %d required (%s threshold %.3f)\n",
		cert.AgreeCount, len(cert.Votes), cert.RequiredCount, shape.Name, shape.Threshold)
	fmt.Fprintf(&b, "ratio: %d/%d = %.3f vs required %.3f\n",
		cert.AgreeCount, len(cert.Votes),
		float64(cert.AgreeCount)/float64(len(cert.Votes)), shape.Threshold)
	fmt.Fprintf(&b, "structure: %s has V=%d E=%d F=%d (dimension %d, tier %s)\n",
		shape.Name, shape.Vertices, shape.Edges, shape.Faces, shape.Dimension, shape.Tier)

	if shape.SelfDual {
		fmt.Fprintf(&b, "duality: self-dual\n")
	} else if shape.Dual != "" {
		fmt.Fprintf(&b, "duality: dual is %s\n", shape.Dual)
	} else {
		fmt.Fprintf(&b, "duality: no declared dual\n")
	}

	if cert.Invariants != nil {
		fmt.Fprintf(&b, "topology: b0=%d b1=%d b2=%d",
			cert.Invariants.B0, cert.Invariants.B1, cert.Invariants.B2)

		if cert.Partitioned {
			fmt.Fprintf(&b, " (vote set is split into %d pieces)", cert.PieceCount)
		}
	}

	return b.String()
}

// renderEmptyProof explains why an empty vote set is rejected.
func renderEmptyProof(shape geometry.Shape) string {
	return fmt.Sprintf("%s consensus: NOT SATISFIED\nempty vote set cannot satisfy %s threshold %.3f",
		geometry.KeywordFor(shape), shape.Name, shape.Threshold)
}
