// Package api exposes verification, partition detection, and recovery
// over HTTP. Handlers run the pure core packages and hand the resulting
// certificates to the archive and the mesh through narrow interfaces.
package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"GeoQuorum/internal/consensus"
	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/logger"
	"GeoQuorum/internal/partition"
	"GeoQuorum/internal/recovery"
	"GeoQuorum/internal/wire"
)

const (
	// maxBodySize is the maximum request body size in bytes.
	maxBodySize = 1 << 20 // 1 MB
)

// Store archives certificate envelopes.
type Store interface {
	Put(env *wire.Envelope) error
	Get(id string) (*wire.Envelope, error)
	ListByShape(shape geometry.Kind) ([]*wire.Envelope, error)
}

// Announcer gossips compressed certificate payloads to the mesh.
type Announcer interface {
	AnnounceCertificate(payload []byte) error
}

// Attester signs certificate digests with the node's BLS key.
type Attester interface {
	Attest(digest [32]byte) []byte
	PublicKeyBytes() []byte
}

// StatusProvider exposes mesh state for monitoring.
type StatusProvider interface {
	PeerCount() int
}

// Server is the HTTP API server.
type Server struct {
	addr      string         // addr is the HTTP listen address
	store     Store          // store archives issued certificates
	announcer Announcer      // announcer gossips certificates to peers
	attester  Attester       // attester signs certificate digests
	status    StatusProvider // status provides mesh state for monitoring
	server    *http.Server   // server is the underlying HTTP server
}

// New creates a new HTTP API server. Any collaborator may be nil; the
// matching behavior (archival, gossip, attestation, status) is skipped.
func New(addr string, store Store, announcer Announcer, attester Attester, status StatusProvider) *Server {
	return &Server{
		addr:      addr,
		store:     store,
		announcer: announcer,
		attester:  attester,
		status:    status,
	}
}

// Start starts the HTTP server in a goroutine.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /verify", s.handleVerify)
	mux.HandleFunc("POST /detect", s.handleDetect)
	mux.HandleFunc("POST /recover", s.handleRecover)
	mux.HandleFunc("GET /certificate/{id}", s.handleGetCertificate)
	mux.HandleFunc("GET /certificates", s.handleListCertificates)
	mux.HandleFunc("GET /catalog", s.handleCatalog)
	mux.HandleFunc("GET /catalog/{shape}", s.handleCatalogShape)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http api started", "addr", s.addr)

		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// voteRequest is the JSON form of a vote.
type voteRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Agree         bool    `json:"agree"`
	Justification string  `json:"justification,omitempty"`
	Weight        float64 `json:"weight,omitempty"`
}

// verifyRequest is the body of POST /verify.
type verifyRequest struct {
	Shape       string        `json:"shape"`
	Description string        `json:"description"`
	Votes       []voteRequest `json:"votes"`
}

// detectRequest is the body of POST /detect.
type detectRequest struct {
	Votes []voteRequest `json:"votes"`
}

// recoverRequest is the body of POST /recover.
type recoverRequest struct {
	Shape          string   `json:"shape"`
	CertificateIDs []string `json:"certificateIds"`
}

// toVotes converts request votes, defaulting weight to 1.0.
func toVotes(reqs []voteRequest) []consensus.Vote {
	votes := make([]consensus.Vote, len(reqs))

	for i, r := range reqs {
		votes[i] = consensus.Vote{
			ID:            r.ID,
			Name:          r.Name,
			Agree:         r.Agree,
			Justification: r.Justification,
			Weight:        r.Weight,
		}

		if votes[i].Weight == 0 {
			votes[i].Weight = 1.0
		}
	}

	return votes
}

// handleVerify handles POST /verify requests.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Shape == "" {
		writeError(w, http.StatusBadRequest, "shape is required")
		return
	}

	cert := consensus.Verify(toVotes(req.Votes), geometry.Kind(req.Shape), req.Description)

	env := &wire.Envelope{Cert: cert}

	if s.attester != nil {
		digest := cert.Digest()
		env.Attestation = s.attester.Attest(digest)
		env.Pubkey = s.attester.PublicKeyBytes()
	}

	if s.store != nil {
		if err := s.store.Put(env); err != nil {
			logger.Error("archive certificate", "id", cert.ID, "error", err)
		}
	}

	s.announce(env)

	logger.Debug("certificate issued", "id", cert.ID, "shape", cert.Shape, "valid", cert.Valid)

	writeJSON(w, http.StatusOK, envelopeJSON(env))
}

// handleDetect handles POST /detect requests.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary := partition.Detect(toVotes(req.Votes))

	if err := partition.Check(summary); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summaryJSON(summary))
}

// handleRecover handles POST /recover requests. Piece certificates are
// loaded from the archive by id; recovery failures still return the
// uniform failure result with HTTP 200, since the failure shape is part
// of the recovery contract. Only transport-level problems (bad request,
// unknown certificate id) map to error statuses.
func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not available")
		return
	}

	var req recoverRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pieces := make([]*consensus.Certificate, 0, len(req.CertificateIDs))

	for _, id := range req.CertificateIDs {
		env, err := s.store.Get(id)
		if err != nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("certificate %s: %v", id, err))
			return
		}

		pieces = append(pieces, env.Cert)
	}

	result, err := recovery.Recover(pieces, geometry.Kind(req.Shape))
	if err != nil {
		logger.Warn("recovery failed", "shape", req.Shape, "pieces", len(pieces), "error", err)
	}

	plan := recovery.NewPlan(len(pieces))

	if result.Success {
		env := &wire.Envelope{Cert: result.Certificate}

		if s.attester != nil {
			digest := result.Certificate.Digest()
			env.Attestation = s.attester.Attest(digest)
			env.Pubkey = s.attester.PublicKeyBytes()
		}

		if putErr := s.store.Put(env); putErr != nil {
			logger.Error("archive recovered certificate", "id", result.Certificate.ID, "error", putErr)
		}

		s.announce(env)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     result.Success,
		"certificate": certificateJSON(result.Certificate),
		"proof":       result.Proof,
		"mapping": map[string]any{
			"original": result.Mapping.Original,
			"dual":     result.Mapping.Dual,
			"factor":   result.Mapping.Factor,
		},
		"plan": planJSON(plan),
	})
}

// handleGetCertificate handles GET /certificate/{id} requests.
func (s *Server) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not available")
		return
	}

	env, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelopeJSON(env))
}

// handleListCertificates handles GET /certificates?shape= requests.
func (s *Server) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not available")
		return
	}

	kind := geometry.Kind(r.URL.Query().Get("shape"))

	if _, err := geometry.Lookup(kind); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	envs, err := s.store.ListByShape(kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]any, len(envs))
	for i, env := range envs {
		out[i] = envelopeJSON(env)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"shape":        kind,
		"certificates": out,
	})
}

// handleCatalog handles GET /catalog requests.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	kinds := geometry.Kinds()
	shapes := make([]any, 0, len(kinds))

	for _, kind := range kinds {
		shape, err := geometry.Lookup(kind)
		if err != nil {
			continue
		}

		shapes = append(shapes, shapeJSON(shape))
	}

	writeJSON(w, http.StatusOK, map[string]any{"shapes": shapes})
}

// handleCatalogShape handles GET /catalog/{shape} requests.
func (s *Server) handleCatalogShape(w http.ResponseWriter, r *http.Request) {
	shape, err := geometry.Lookup(geometry.Kind(r.PathValue("shape")))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, shapeJSON(shape))
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// handleStatus handles GET /status requests.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		writeError(w, http.StatusServiceUnavailable, "status not available")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"peers":  s.status.PeerCount(),
		"shapes": len(geometry.Kinds()),
	})
}

// announce compresses and gossips an envelope if a mesh is attached.
func (s *Server) announce(env *wire.Envelope) {
	if s.announcer == nil {
		return
	}

	encoded, err := wire.Marshal(env)
	if err != nil {
		logger.Error("encode for announce", "id", env.Cert.ID, "error", err)
		return
	}

	compressed, err := wire.Compress(encoded)
	if err != nil {
		logger.Error("compress for announce", "id", env.Cert.ID, "error", err)
		return
	}

	if err := s.announcer.AnnounceCertificate(compressed); err != nil {
		logger.Warn("announce certificate", "id", env.Cert.ID, "error", err)
	}
}

// decodeBody decodes a JSON request body with a size limit.
func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return errors.New("failed to read body")
	}

	if len(body) == 0 {
		return errors.New("empty body")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %v", err)
	}

	return nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// shapeJSON renders a catalog entry.
func shapeJSON(shape geometry.Shape) map[string]any {
	return map[string]any{
		"kind":      shape.Kind,
		"name":      shape.Name,
		"vertices":  shape.Vertices,
		"edges":     shape.Edges,
		"faces":     shape.Faces,
		"threshold": shape.Threshold,
		"dual":      shape.Dual,
		"selfDual":  shape.SelfDual,
		"dimension": shape.Dimension,
		"tier":      shape.Tier,
		"keyword":   geometry.KeywordFor(shape),
	}
}

// certificateJSON renders a certificate for API responses.
func certificateJSON(cert *consensus.Certificate) map[string]any {
	if cert == nil {
		return nil
	}

	votes := make([]any, len(cert.Votes))
	for i, v := range cert.Votes {
		votes[i] = map[string]any{
			"id":            v.ID,
			"name":          v.Name,
			"agree":         v.Agree,
			"justification": v.Justification,
			"weight":        v.Weight,
		}
	}

	digest := cert.Digest()

	out := map[string]any{
		"id":            cert.ID,
		"shape":         cert.Shape,
		"description":   cert.Description,
		"votes":         votes,
		"agreeCount":    cert.AgreeCount,
		"requiredCount": cert.RequiredCount,
		"threshold":     cert.Threshold,
		"valid":         cert.Valid,
		"proof":         cert.Proof,
		"issuedAt":      cert.IssuedAt.Format(time.RFC3339Nano),
		"partitioned":   cert.Partitioned,
		"pieceCount":    cert.PieceCount,
		"digest":        hex.EncodeToString(digest[:]),
	}

	if cert.Invariants != nil {
		out["invariants"] = map[string]int{
			"b0": cert.Invariants.B0,
			"b1": cert.Invariants.B1,
			"b2": cert.Invariants.B2,
		}
	}

	return out
}

// envelopeJSON renders an envelope, attaching attestation metadata when present.
func envelopeJSON(env *wire.Envelope) map[string]any {
	out := certificateJSON(env.Cert)

	if len(env.Attestation) > 0 {
		out["attestation"] = hex.EncodeToString(env.Attestation)
		out["blsPubkey"] = hex.EncodeToString(env.Pubkey)
	}

	return out
}

// summaryJSON renders a partition summary.
func summaryJSON(s *partition.Summary) map[string]any {
	groups := make([]any, len(s.VoteGroups))
	for i, g := range s.VoteGroups {
		votes := make([]any, len(g))
		for j, v := range g {
			votes[j] = map[string]any{"id": v.ID, "name": v.Name, "agree": v.Agree}
		}
		groups[i] = votes
	}

	return map[string]any{
		"partitioned":     s.Partitioned,
		"pieceCount":      s.PieceCount,
		"pieces":          s.Pieces,
		"originalShape":   s.OriginalShape,
		"decomposedShape": s.DecomposedShape,
		"voteGroups":      groups,
		"invariants": map[string]int{
			"b0": s.Invariants.B0,
			"b1": s.Invariants.B1,
			"b2": s.Invariants.B2,
		},
	}
}

// planJSON renders a recovery plan.
func planJSON(p *recovery.Plan) map[string]any {
	steps := make([]any, len(p.Steps))
	for i, step := range p.Steps {
		steps[i] = map[string]any{
			"name":      step.Name,
			"dependsOn": step.DependsOn,
			"weight":    step.Weight,
		}
	}

	return map[string]any{
		"strategy":  p.Strategy,
		"steps":     steps,
		"estimated": p.Estimated.String(),
	}
}
