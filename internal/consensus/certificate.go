package consensus

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/zeebo/blake3"

	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/topology"
)

// Certificate is the immutable record produced by a consensus check. A
// certificate never mutates after creation; recovery produces a new one.
type Certificate struct {
	// ID is a generated unique identifier.
	ID string

	// Shape is the catalog kind the check ran against.
	Shape geometry.Kind

	// ShapeRecord is a snapshot of the shape used. Zero-valued when the
	// shape could not be resolved.
	ShapeRecord geometry.Shape

	// Description is the caller-supplied subject of the vote.
	Description string

	// Votes is the full vote list the check ran over.
	Votes []Vote

	// AgreeCount is the number of agreeing votes.
	AgreeCount int

	// RequiredCount is ceil(V * threshold) for the shape.
	RequiredCount int

	// Threshold is the shape's agreement ratio.
	Threshold float64

	// Valid reports whether AgreeCount >= RequiredCount.
	Valid bool

	// Proof is the human-readable justification narrative.
	Proof string

	// IssuedAt is the advisory issuance timestamp.
	IssuedAt time.Time

	// Invariants holds the Betti numbers of the agreement graph, when
	// computed.
	Invariants *topology.Invariants

	// Partitioned reports whether the vote set itself shows a
	// topological split.
	Partitioned bool

	// PieceCount is the number of connected pieces of the vote set.
	PieceCount int
}

// Digest returns a deterministic blake3 digest over the certificate's
// decision-relevant fields. The ID and timestamp are excluded, so two
// verifications of identical inputs share a digest.
func (c *Certificate) Digest() [32]byte {
	h := blake3.New()

	writeString := func(s string) {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
		h.Write(lenBuf[:])
		h.Write([]byte(s))
	}

	writeUint64 := func(v uint64) {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeString(string(c.Shape))
	writeString(c.Description)
	writeUint64(uint64(len(c.Votes)))

	for _, v := range c.Votes {
		writeString(v.ID)
		writeString(v.Name)
		writeString(v.Justification)
		writeUint64(math.Float64bits(v.Weight))

		if v.Agree {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	writeUint64(uint64(c.AgreeCount))
	writeUint64(uint64(c.RequiredCount))
	writeUint64(math.Float64bits(c.Threshold))

	if c.Valid {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	var digest [32]byte
	h.Sum(digest[:0])

	return digest
}
