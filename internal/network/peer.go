package network

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go"

	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/logger"
)

const (
	// defaultRequestTimeout is the default timeout for request calls.
	defaultRequestTimeout = 30 * time.Second
)

// Peer represents a connection to a remote mesh node.
type Peer struct {
	publicKey ed25519.PublicKey // publicKey is the remote node's ed25519 public key
	address   string            // address is the remote address (for reconnection)
	conn      *quic.Conn        // conn is the underlying QUIC connection
	mesh      *Mesh             // mesh is the parent mesh
	closed    atomic.Bool       // closed indicates if the peer is closed
	mu        sync.Mutex        // mu protects send operations
}

// PublicKey returns the remote node's ed25519 public key.
func (p *Peer) PublicKey() ed25519.PublicKey {
	return p.publicKey
}

// Address returns the remote address.
func (p *Peer) Address() string {
	return p.address
}

// sendFrame sends a typed frame to the peer on a new unidirectional stream.
func (p *Peer) sendFrame(msgType byte, payload []byte) error {
	if p.closed.Load() {
		return fmt.Errorf("peer is closed")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	stream, err := p.conn.OpenUniStreamSync(context.Background())
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}

	if err := writeFrame(stream, msgType, payload); err != nil {
		stream.Close()
		return fmt.Errorf("write frame: %w", err)
	}

	return stream.Close()
}

// request sends a typed frame and waits for the response frame on a
// bidirectional stream. Uses the provided context for timeout/cancellation.
func (p *Peer) request(ctx context.Context, msgType byte, payload []byte) ([]byte, error) {
	if p.closed.Load() {
		return nil, fmt.Errorf("peer is closed")
	}

	stream, err := p.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("open stream:\n%w", err)
	}
	defer stream.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultRequestTimeout)
	}
	stream.SetDeadline(deadline)

	if err := writeFrame(stream, msgType, payload); err != nil {
		return nil, fmt.Errorf("write request:\n%w", err)
	}

	respType, response, err := readFrame(stream)
	if err != nil {
		return nil, fmt.Errorf("read response:\n%w", err)
	}

	if respType != msgShapeResponse {
		return nil, fmt.Errorf("unexpected response type 0x%02x", respType)
	}

	return response, nil
}

// Close closes the peer connection.
func (p *Peer) Close() error {
	if p.closed.Swap(true) {
		return nil // Already closed
	}

	return p.conn.CloseWithError(0, "closed")
}

// receiveLoop accepts incoming streams and dispatches frames.
func (p *Peer) receiveLoop() {
	go p.acceptBidiStreams(context.Background())

	for {
		stream, err := p.conn.AcceptUniStream(p.mesh.ctx)
		if err != nil {
			break
		}

		go p.handleUniStream(stream)
	}

	p.handleDisconnect()
}

// acceptBidiStreams accepts bidirectional streams for request/response.
func (p *Peer) acceptBidiStreams(ctx context.Context) {
	for {
		stream, err := p.conn.AcceptStream(ctx)
		if err != nil {
			return
		}

		go p.handleBidiStream(stream)
	}
}

// handleBidiStream serves one request/response exchange.
func (p *Peer) handleBidiStream(stream *quic.Stream) {
	defer stream.Close()

	msgType, payload, err := readFrame(stream)
	if err != nil {
		return
	}

	if msgType != msgShapeRequest {
		logger.Debug("unexpected request type", "peer", p.address, "type", msgType)
		return
	}

	response, err := p.mesh.handleShapeRequest(geometry.Kind(payload))
	if err != nil {
		logger.Debug("shape request failed", "peer", p.address, "error", err)
		return
	}

	writeFrame(stream, msgShapeResponse, response)
}

// handleUniStream reads one gossip frame from a unidirectional stream.
func (p *Peer) handleUniStream(stream *quic.ReceiveStream) {
	msgType, payload, err := readFrame(stream)
	if err != nil {
		logger.Debug("stream read error", "peer", p.address, "error", err)
		return
	}

	if msgType != msgAnnounce {
		logger.Debug("unexpected gossip type", "peer", p.address, "type", msgType)
		return
	}

	p.mesh.handleAnnounce(p, payload)
}

// handleDisconnect handles peer disconnection.
func (p *Peer) handleDisconnect() {
	if p.closed.Swap(true) {
		return // Already closed
	}

	p.mesh.handlePeerDisconnect(p)
}
