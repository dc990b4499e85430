// Package network connects nodes into a QUIC mesh. Certificates are
// gossiped to all peers over unidirectional streams; shape catalogs are
// fetched from a single peer over a bidirectional request stream. The
// mesh moves opaque compressed envelope bytes and never decodes them.
package network

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/logger"
)

const (
	// defaultReconnectDelay is the default delay between reconnection attempts.
	defaultReconnectDelay = 5 * time.Second

	// maxReconnectDelay is the maximum delay between reconnection attempts.
	maxReconnectDelay = 60 * time.Second

	// alpnProtocol is the ALPN protocol identifier.
	alpnProtocol = "geoquorum/1"
)

// Config holds the configuration for a Mesh.
type Config struct {
	PrivateKey     ed25519.PrivateKey // PrivateKey is the node's ed25519 private key
	ListenAddr     string             // ListenAddr is the address to listen on (e.g., ":9000")
	ReconnectDelay time.Duration      // ReconnectDelay is the initial delay between reconnection attempts
}

// CertificateHandler processes a gossiped certificate payload. The
// payload is the compressed envelope exactly as announced.
type CertificateHandler func(peer *Peer, payload []byte)

// ShapeRequestHandler serves a peer's request for all certificates of a
// shape, returning their compressed envelope payloads.
type ShapeRequestHandler func(shape geometry.Kind) ([][]byte, error)

// Mesh is a node in the certificate gossip network.
type Mesh struct {
	privateKey ed25519.PrivateKey // privateKey is the node's ed25519 private key
	publicKey  ed25519.PublicKey  // publicKey is the node's ed25519 public key
	listenAddr string             // listenAddr is the address to listen on
	tlsConfig  *tls.Config        // tlsConfig is the TLS configuration
	quicConfig *quic.Config       // quicConfig is the QUIC configuration

	listener *quic.Listener // listener is the QUIC listener

	peers   map[string]*Peer // peers maps public key hex to peer
	peersMu sync.RWMutex     // peersMu protects peers map

	knownAddrs   map[string]string // knownAddrs maps public key hex to address (for reconnection)
	knownAddrsMu sync.RWMutex      // knownAddrsMu protects knownAddrs map

	reconnectDelay time.Duration // reconnectDelay is the initial reconnection delay

	dedup *Dedup // dedup filters re-gossiped announcements

	onCertificate  CertificateHandler  // onCertificate handles gossiped certificates
	onShapeRequest ShapeRequestHandler // onShapeRequest serves shape catalog requests
	handlersMu     sync.RWMutex        // handlersMu protects event handlers

	ctx    context.Context    // ctx is the mesh's context
	cancel context.CancelFunc // cancel cancels the mesh's context
	wg     sync.WaitGroup     // wg waits for goroutines to finish
}

// NewMesh creates a new mesh node.
func NewMesh(cfg Config) (*Mesh, error) {
	if cfg.PrivateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}

	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("listen address is required")
	}

	reconnectDelay := cfg.ReconnectDelay
	if reconnectDelay == 0 {
		reconnectDelay = defaultReconnectDelay
	}

	identity, err := generateIdentity(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("generate identity: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates:       []tls.Certificate{identity},
		ClientAuth:         tls.RequireAnyClientCert,
		InsecureSkipVerify: true, // Peer keys are verified manually
		NextProtos:         []string{alpnProtocol},
	}

	quicConfig := &quic.Config{
		MaxIdleTimeout:  30 * time.Second,
		KeepAlivePeriod: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mesh{
		privateKey:     cfg.PrivateKey,
		publicKey:      cfg.PrivateKey.Public().(ed25519.PublicKey),
		listenAddr:     cfg.ListenAddr,
		tlsConfig:      tlsConfig,
		quicConfig:     quicConfig,
		peers:          make(map[string]*Peer),
		knownAddrs:     make(map[string]string),
		reconnectDelay: reconnectDelay,
		dedup:          NewDedup(defaultDedupTTL),
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

// PublicKey returns the mesh node's public key.
func (m *Mesh) PublicKey() ed25519.PublicKey {
	return m.publicKey
}

// Addr returns the listener's address. Returns empty string if not started.
func (m *Mesh) Addr() string {
	if m.listener == nil {
		return ""
	}

	return m.listener.Addr().String()
}

// Start starts the mesh and begins accepting connections.
func (m *Mesh) Start() error {
	listener, err := quic.ListenAddr(m.listenAddr, m.tlsConfig, m.quicConfig)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	m.listener = listener

	m.wg.Add(1)
	go m.acceptLoop()

	logger.Info("mesh listening", "addr", listener.Addr().String())

	return nil
}

// Connect connects to a remote mesh node at the given address.
func (m *Mesh) Connect(addr string) (*Peer, error) {
	conn, err := quic.DialAddr(m.ctx, addr, m.tlsConfig, m.quicConfig)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	peer, err := m.setupPeer(conn, addr)
	if err != nil {
		conn.CloseWithError(1, "setup failed")
		return nil, err
	}

	return peer, nil
}

// AnnounceCertificate gossips a compressed certificate envelope to all
// connected peers. The local dedup tracker records the payload so the
// announcement does not bounce back through this node.
func (m *Mesh) AnnounceCertificate(payload []byte) error {
	m.dedup.Check(payload)

	m.peersMu.RLock()
	peers := make([]*Peer, 0, len(m.peers))
	for _, p := range m.peers {
		peers = append(peers, p)
	}
	m.peersMu.RUnlock()

	var lastErr error

	for _, p := range peers {
		if err := p.sendFrame(msgAnnounce, payload); err != nil {
			logger.Warn("announce failed", "peer", p.Address(), "error", err)
			lastErr = err
		}
	}

	return lastErr
}

// RequestShape asks one peer for all certificates it has archived for a
// shape, returning their compressed envelope payloads.
func (m *Mesh) RequestShape(ctx context.Context, pubkey ed25519.PublicKey, shape geometry.Kind) ([][]byte, error) {
	peer := m.GetPeer(pubkey)
	if peer == nil {
		return nil, fmt.Errorf("peer %x not connected", pubkey[:8])
	}

	response, err := peer.request(ctx, msgShapeRequest, []byte(shape))
	if err != nil {
		return nil, fmt.Errorf("request shape %s:\n%w", shape, err)
	}

	return decodePayloadList(response)
}

// Peers returns a list of all connected peers.
func (m *Mesh) Peers() []*Peer {
	m.peersMu.RLock()
	defer m.peersMu.RUnlock()

	peers := make([]*Peer, 0, len(m.peers))
	for _, p := range m.peers {
		peers = append(peers, p)
	}

	return peers
}

// GetPeer returns the peer for the given public key, or nil if not connected.
func (m *Mesh) GetPeer(pubkey ed25519.PublicKey) *Peer {
	keyHex := hex.EncodeToString(pubkey)

	m.peersMu.RLock()
	defer m.peersMu.RUnlock()

	return m.peers[keyHex]
}

// OnCertificate sets the handler called for each new gossiped certificate.
func (m *Mesh) OnCertificate(fn CertificateHandler) {
	m.handlersMu.Lock()
	m.onCertificate = fn
	m.handlersMu.Unlock()
}

// OnShapeRequest sets the handler serving shape catalog requests.
func (m *Mesh) OnShapeRequest(fn ShapeRequestHandler) {
	m.handlersMu.Lock()
	m.onShapeRequest = fn
	m.handlersMu.Unlock()
}

// Close stops the mesh and closes all connections.
func (m *Mesh) Close() error {
	m.cancel()

	if m.listener != nil {
		m.listener.Close()
	}

	m.peersMu.Lock()
	for _, p := range m.peers {
		p.Close()
	}
	m.peers = make(map[string]*Peer)
	m.peersMu.Unlock()

	m.wg.Wait()

	return nil
}

// acceptLoop accepts incoming connections.
func (m *Mesh) acceptLoop() {
	defer m.wg.Done()

	for {
		conn, err := m.listener.Accept(m.ctx)
		if err != nil {
			return // Listener closed
		}

		m.wg.Add(1)
		go m.handleIncoming(conn)
	}
}

// handleIncoming handles an incoming connection.
func (m *Mesh) handleIncoming(conn *quic.Conn) {
	defer m.wg.Done()

	if _, err := m.setupPeer(conn, conn.RemoteAddr().String()); err != nil {
		conn.CloseWithError(1, "setup failed")
	}
}

// setupPeer creates a Peer from a QUIC connection.
func (m *Mesh) setupPeer(conn *quic.Conn, addr string) (*Peer, error) {
	tlsState := conn.ConnectionState().TLS

	pubKey, err := extractPublicKey(tlsState)
	if err != nil {
		return nil, fmt.Errorf("extract public key: %w", err)
	}

	keyHex := hex.EncodeToString(pubKey)

	peer := &Peer{
		publicKey: pubKey,
		address:   addr,
		conn:      conn,
		mesh:      m,
	}

	m.peersMu.Lock()
	m.peers[keyHex] = peer
	m.peersMu.Unlock()

	m.knownAddrsMu.Lock()
	m.knownAddrs[keyHex] = addr
	m.knownAddrsMu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		peer.receiveLoop()
	}()

	logger.Debug("peer connected", "addr", addr, "key", keyHex[:16])

	return peer, nil
}

// handlePeerDisconnect handles a peer disconnection.
func (m *Mesh) handlePeerDisconnect(p *Peer) {
	keyHex := hex.EncodeToString(p.publicKey)

	m.peersMu.Lock()
	delete(m.peers, keyHex)
	m.peersMu.Unlock()

	logger.Debug("peer disconnected", "addr", p.address)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.reconnectPeer(keyHex)
	}()
}

// reconnectPeer attempts to reconnect to a peer with exponential backoff.
func (m *Mesh) reconnectPeer(keyHex string) {
	delay := m.reconnectDelay

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-time.After(delay):
		}

		m.knownAddrsMu.RLock()
		addr, ok := m.knownAddrs[keyHex]
		m.knownAddrsMu.RUnlock()

		if !ok {
			return // Peer removed from known addresses
		}

		m.peersMu.RLock()
		_, exists := m.peers[keyHex]
		m.peersMu.RUnlock()

		if exists {
			return // Already reconnected
		}

		if _, err := m.Connect(addr); err == nil {
			return
		}

		delay = delay * 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// handleAnnounce processes a gossiped certificate frame, filtering
// duplicates before handing the payload to the registered handler.
func (m *Mesh) handleAnnounce(p *Peer, payload []byte) {
	if !m.dedup.Check(payload) {
		logger.Debug("dedup filtered", "peer", p.address, "bytes", len(payload))
		return
	}

	m.handlersMu.RLock()
	fn := m.onCertificate
	m.handlersMu.RUnlock()

	if fn != nil {
		fn(p, payload)
	}
}

// handleShapeRequest serves a shape catalog request frame.
func (m *Mesh) handleShapeRequest(shape geometry.Kind) ([]byte, error) {
	m.handlersMu.RLock()
	fn := m.onShapeRequest
	m.handlersMu.RUnlock()

	if fn == nil {
		return nil, fmt.Errorf("no shape request handler registered")
	}

	payloads, err := fn(shape)
	if err != nil {
		return nil, err
	}

	return encodePayloadList(payloads), nil
}
