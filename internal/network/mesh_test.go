package network

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"testing"
	"time"

	"GeoQuorum/internal/geometry"
)

// newTestMesh creates a mesh listening on a random localhost port.
func newTestMesh(t *testing.T) *Mesh {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	m, err := NewMesh(Config{
		PrivateKey:     priv,
		ListenAddr:     "127.0.0.1:0",
		ReconnectDelay: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new mesh: %v", err)
	}

	if err := m.Start(); err != nil {
		t.Fatalf("start mesh: %v", err)
	}

	t.Cleanup(func() { m.Close() })

	return m
}

// waitFor polls the condition until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("condition not met before deadline")
}

func TestAnnounceReachesPeer(t *testing.T) {
	a := newTestMesh(t)
	b := newTestMesh(t)

	received := make(chan []byte, 1)
	b.OnCertificate(func(_ *Peer, payload []byte) {
		received <- payload
	})

	if _, err := a.Connect(b.Addr()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool { return len(b.Peers()) == 1 })

	payload := []byte("compressed certificate payload")
	if err := a.AnnounceCertificate(payload); err != nil {
		t.Fatalf("announce: %v", err)
	}

	select {
	case got := <-received:
		if !bytes.Equal(got, payload) {
			t.Errorf("received %q, want %q", got, payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("announcement never arrived")
	}
}

func TestAnnounceDeduplicated(t *testing.T) {
	a := newTestMesh(t)
	b := newTestMesh(t)

	received := make(chan []byte, 4)
	b.OnCertificate(func(_ *Peer, payload []byte) {
		received <- payload
	})

	if _, err := a.Connect(b.Addr()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	payload := []byte("announced twice")

	if err := a.AnnounceCertificate(payload); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if err := a.AnnounceCertificate(payload); err != nil {
		t.Fatalf("announce again: %v", err)
	}

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("first announcement never arrived")
	}

	select {
	case <-received:
		t.Error("duplicate announcement should have been filtered")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestRequestShape(t *testing.T) {
	a := newTestMesh(t)
	b := newTestMesh(t)

	want := [][]byte{[]byte("cert-1"), []byte("cert-2")}

	b.OnShapeRequest(func(shape geometry.Kind) ([][]byte, error) {
		if shape != geometry.Octahedron {
			return nil, fmt.Errorf("unexpected shape %s", shape)
		}
		return want, nil
	})

	if _, err := a.Connect(b.Addr()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := a.RequestShape(ctx, b.PublicKey(), geometry.Octahedron)
	if err != nil {
		t.Fatalf("request shape: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d payloads, want %d", len(got), len(want))
	}

	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("payload %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRequestShapeUnknownPeer(t *testing.T) {
	a := newTestMesh(t)

	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := a.RequestShape(ctx, pub, geometry.Cube); err == nil {
		t.Error("requesting from an unconnected peer should error")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	payload := []byte("frame body")
	if err := writeFrame(&buf, msgAnnounce, payload); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	msgType, got, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}

	if msgType != msgAnnounce {
		t.Errorf("type = 0x%02x, want 0x%02x", msgType, msgAnnounce)
	}

	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %q, want %q", got, payload)
	}
}

func TestFrameRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0})

	if _, _, err := readFrame(&buf); err == nil {
		t.Error("zero-length frame should error")
	}
}

func TestPayloadListRoundTrip(t *testing.T) {
	payloads := [][]byte{[]byte("one"), {}, []byte("three")}

	decoded, err := decodePayloadList(encodePayloadList(payloads))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(decoded) != len(payloads) {
		t.Fatalf("got %d payloads, want %d", len(decoded), len(payloads))
	}

	for i := range payloads {
		if !bytes.Equal(decoded[i], payloads[i]) {
			t.Errorf("payload %d = %q, want %q", i, decoded[i], payloads[i])
		}
	}
}

func TestPayloadListTruncated(t *testing.T) {
	encoded := encodePayloadList([][]byte{[]byte("payload")})

	if _, err := decodePayloadList(encoded[:len(encoded)-2]); err == nil {
		t.Error("truncated list should error")
	}

	if _, err := decodePayloadList([]byte{0, 0}); err == nil {
		t.Error("truncated header should error")
	}
}

func TestDedupExpiry(t *testing.T) {
	d := NewDedup(50 * time.Millisecond)

	data := []byte("seen once")

	if !d.Check(data) {
		t.Error("first sighting should pass")
	}

	if d.Check(data) {
		t.Error("second sighting should be filtered")
	}

	time.Sleep(80 * time.Millisecond)

	if !d.Check(data) {
		t.Error("expired sighting should pass again")
	}
}

func TestCloseWaitsForInboundHandlers(t *testing.T) {
	a := newTestMesh(t)
	b := newTestMesh(t)

	if _, err := b.Connect(a.Addr()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool { return len(a.Peers()) == 1 })

	done := make(chan struct{})
	go func() {
		a.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close never returned")
	}

	if len(a.Peers()) != 0 {
		t.Errorf("got %d peers after close, want 0", len(a.Peers()))
	}
}
