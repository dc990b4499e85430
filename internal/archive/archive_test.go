package archive

import (
	"errors"
	"fmt"
	"testing"

	"GeoQuorum/internal/consensus"
	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/wire"
)

// newTestArchive creates a temporary archive for testing.
func newTestArchive(t *testing.T) *Archive {
	t.Helper()

	a, err := Open(t.TempDir() + "/db")
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}

	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Errorf("close archive: %v", err)
		}
	})

	return a
}

// verifiedEnvelope builds an envelope for an n-vote unanimous round.
func verifiedEnvelope(t *testing.T, kind geometry.Kind, n int, description string) *wire.Envelope {
	t.Helper()

	votes := make([]consensus.Vote, n)
	for i := range votes {
		votes[i] = consensus.NewVote(fmt.Sprintf("node-%d", i), fmt.Sprintf("Node %d", i), true)
	}

	return &wire.Envelope{Cert: consensus.Verify(votes, kind, description)}
}

func TestPutAndGet(t *testing.T) {
	a := newTestArchive(t)

	env := verifiedEnvelope(t, geometry.Tetrahedron, 4, "promote release")

	if err := a.Put(env); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := a.Get(env.Cert.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Cert.ID != env.Cert.ID || got.Cert.Shape != env.Cert.Shape {
		t.Errorf("got %s/%s, want %s/%s", got.Cert.ID, got.Cert.Shape, env.Cert.ID, env.Cert.Shape)
	}

	if got.Cert.Digest() != env.Cert.Digest() {
		t.Error("archived certificate digest diverged")
	}
}

func TestGetMissing(t *testing.T) {
	a := newTestArchive(t)

	if _, err := a.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByDigest(t *testing.T) {
	a := newTestArchive(t)

	env := verifiedEnvelope(t, geometry.Cube, 8, "expand region")

	if err := a.Put(env); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := a.GetByDigest(env.Cert.Digest())
	if err != nil {
		t.Fatalf("get by digest: %v", err)
	}

	if got.Cert.ID != env.Cert.ID {
		t.Errorf("digest lookup returned %s, want %s", got.Cert.ID, env.Cert.ID)
	}

	var unknown [32]byte
	if _, err := a.GetByDigest(unknown); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown digest, got %v", err)
	}
}

func TestListByShape(t *testing.T) {
	a := newTestArchive(t)

	for i := 0; i < 3; i++ {
		env := verifiedEnvelope(t, geometry.Octahedron, 6, fmt.Sprintf("round %d", i))
		if err := a.Put(env); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}

	other := verifiedEnvelope(t, geometry.Cube, 8, "unrelated")
	if err := a.Put(other); err != nil {
		t.Fatalf("put cube: %v", err)
	}

	octa, err := a.ListByShape(geometry.Octahedron)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(octa) != 3 {
		t.Errorf("listed %d octahedron certificates, want 3", len(octa))
	}

	for _, env := range octa {
		if env.Cert.Shape != geometry.Octahedron {
			t.Errorf("shape index returned a %s certificate", env.Cert.Shape)
		}
	}

	empty, err := a.ListByShape(geometry.Icosahedron)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}

	if len(empty) != 0 {
		t.Errorf("listed %d icosahedron certificates, want 0", len(empty))
	}
}

func TestRawByShape(t *testing.T) {
	a := newTestArchive(t)

	env := verifiedEnvelope(t, geometry.Tetrahedron, 4, "raw payload")
	if err := a.Put(env); err != nil {
		t.Fatalf("put: %v", err)
	}

	raw, err := a.RawByShape(geometry.Tetrahedron)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}

	if len(raw) != 1 {
		t.Fatalf("got %d payloads, want 1", len(raw))
	}

	// The raw payload is the compressed wire form.
	encoded, err := wire.Decompress(raw[0])
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}

	decoded, err := wire.Unmarshal(encoded)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Cert.ID != env.Cert.ID {
		t.Errorf("raw payload decodes to %s, want %s", decoded.Cert.ID, env.Cert.ID)
	}
}

func TestPutOverwriteSameDigest(t *testing.T) {
	a := newTestArchive(t)

	env := verifiedEnvelope(t, geometry.Tetrahedron, 4, "same inputs")
	if err := a.Put(env); err != nil {
		t.Fatalf("put: %v", err)
	}

	// A re-verification of identical inputs gets a new id but the same
	// digest; the digest index points at the latest copy.
	again := &wire.Envelope{Cert: consensus.Verify(env.Cert.Votes, geometry.Tetrahedron, "same inputs")}
	if err := a.Put(again); err != nil {
		t.Fatalf("put again: %v", err)
	}

	got, err := a.GetByDigest(env.Cert.Digest())
	if err != nil {
		t.Fatalf("get by digest: %v", err)
	}

	if got.Cert.ID != again.Cert.ID {
		t.Errorf("digest index points at %s, want latest %s", got.Cert.ID, again.Cert.ID)
	}
}

func TestPutNil(t *testing.T) {
	a := newTestArchive(t)

	if err := a.Put(nil); err == nil {
		t.Error("putting a nil envelope should error")
	}
}
