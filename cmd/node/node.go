package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"GeoQuorum/internal/api"
	"GeoQuorum/internal/archive"
	"GeoQuorum/internal/logger"
	"GeoQuorum/internal/network"
	"GeoQuorum/internal/signing"
	"GeoQuorum/internal/wire"
)

// Node assembles the archive, the mesh, and the HTTP API into one process.
type Node struct {
	cfg     *Config
	archive *archive.Archive
	mesh    *network.Mesh
	api     *api.Server
	keys    *signing.KeyPair
}

// NewNode builds the node from its configuration.
func NewNode(cfg *Config) (*Node, error) {
	arch, err := archive.Open(filepath.Join(cfg.DataPath, "certificates"))
	if err != nil {
		return nil, fmt.Errorf("open archive:\n%w", err)
	}

	keys, err := signing.DeriveKeyPair(cfg.PrivateKey)
	if err != nil {
		arch.Close()
		return nil, fmt.Errorf("derive bls key:\n%w", err)
	}

	mesh, err := network.NewMesh(network.Config{
		PrivateKey: cfg.PrivateKey,
		ListenAddr: cfg.QUICAddress,
	})
	if err != nil {
		arch.Close()
		return nil, fmt.Errorf("create mesh:\n%w", err)
	}

	node := &Node{
		cfg:     cfg,
		archive: arch,
		mesh:    mesh,
		keys:    keys,
	}

	mesh.OnCertificate(node.handleGossipedCertificate)
	mesh.OnShapeRequest(arch.RawByShape)

	node.api = api.New(cfg.HTTPAddress, arch, mesh, keys, meshStatus{mesh})

	return node, nil
}

// Run starts the node and blocks until SIGINT or SIGTERM.
func (n *Node) Run() error {
	if err := n.mesh.Start(); err != nil {
		return fmt.Errorf("start mesh:\n%w", err)
	}

	for _, addr := range n.cfg.Peers {
		if _, err := n.mesh.Connect(addr); err != nil {
			logger.Warn("peer connect failed", "addr", addr, "error", err)
			continue
		}

		logger.Info("peer connected", "addr", addr)
	}

	if err := n.api.Start(); err != nil {
		return fmt.Errorf("start api:\n%w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")

	return n.shutdown()
}

// shutdown stops the API, the mesh, and the archive in order.
func (n *Node) shutdown() error {
	var firstErr error

	if err := n.api.Stop(); err != nil {
		firstErr = err
	}

	if err := n.mesh.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	if err := n.archive.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// handleGossipedCertificate archives a certificate learned from a peer.
// Envelopes with an attestation must verify against their digest before
// they are stored; unattested envelopes are stored as-is.
func (n *Node) handleGossipedCertificate(peer *network.Peer, payload []byte) {
	encoded, err := wire.Decompress(payload)
	if err != nil {
		logger.Warn("gossiped payload decompress failed", "peer", peer.Address(), "error", err)
		return
	}

	env, err := wire.Unmarshal(encoded)
	if err != nil {
		logger.Warn("gossiped payload decode failed", "peer", peer.Address(), "error", err)
		return
	}

	if len(env.Attestation) > 0 {
		if !signing.VerifyAttestation(env.Attestation, env.Cert.Digest(), env.Pubkey) {
			logger.Warn("gossiped attestation invalid", "peer", peer.Address(), "id", env.Cert.ID)
			return
		}
	}

	if err := n.archive.Put(env); err != nil {
		logger.Error("archive gossiped certificate", "id", env.Cert.ID, "error", err)
		return
	}

	logger.Debug("certificate learned", "id", env.Cert.ID, "shape", env.Cert.Shape, "peer", peer.Address())
}

// meshStatus adapts the mesh to the api.StatusProvider interface.
type meshStatus struct {
	mesh *network.Mesh
}

func (m meshStatus) PeerCount() int {
	return len(m.mesh.Peers())
}
