package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"GeoQuorum/internal/consensus"
	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/wire"
)

// mockStore archives envelopes in memory.
type mockStore struct {
	envelopes map[string]*wire.Envelope
}

func newMockStore() *mockStore {
	return &mockStore{envelopes: make(map[string]*wire.Envelope)}
}

func (m *mockStore) Put(env *wire.Envelope) error {
	m.envelopes[env.Cert.ID] = env
	return nil
}

func (m *mockStore) Get(id string) (*wire.Envelope, error) {
	env, ok := m.envelopes[id]
	if !ok {
		return nil, fmt.Errorf("certificate not found")
	}
	return env, nil
}

func (m *mockStore) ListByShape(shape geometry.Kind) ([]*wire.Envelope, error) {
	var out []*wire.Envelope
	for _, env := range m.envelopes {
		if env.Cert.Shape == shape {
			out = append(out, env)
		}
	}
	return out, nil
}

// mockAnnouncer captures announced payloads.
type mockAnnouncer struct {
	payloads [][]byte
}

func (m *mockAnnouncer) AnnounceCertificate(payload []byte) error {
	m.payloads = append(m.payloads, payload)
	return nil
}

// postJSON runs a handler with a JSON body and returns the recorder.
func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	handler(w, req)

	return w
}

// votesBody builds the JSON vote list for n votes, agree of which agree.
func votesBody(n, agree int) []map[string]any {
	votes := make([]map[string]any, n)
	for i := range votes {
		votes[i] = map[string]any{
			"id":    fmt.Sprintf("node-%d", i),
			"name":  fmt.Sprintf("Node %d", i),
			"agree": i < agree,
		}
	}
	return votes
}

func TestVerifyEndpoint(t *testing.T) {
	store := newMockStore()
	announcer := &mockAnnouncer{}
	server := New(":0", store, announcer, nil, nil)

	w := postJSON(t, server.handleVerify, "/verify", map[string]any{
		"shape":       "tetrahedron",
		"description": "promote release",
		"votes":       votesBody(4, 4),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if resp["valid"] != true {
		t.Error("4 of 4 on a tetrahedron should be valid")
	}

	if resp["id"] == "" {
		t.Error("response must carry the certificate id")
	}

	if len(store.envelopes) != 1 {
		t.Errorf("archived %d certificates, want 1", len(store.envelopes))
	}

	if len(announcer.payloads) != 1 {
		t.Errorf("announced %d payloads, want 1", len(announcer.payloads))
	}

	// The announced payload is the compressed wire form.
	encoded, err := wire.Decompress(announcer.payloads[0])
	if err != nil {
		t.Fatalf("decompress announced payload: %v", err)
	}

	if _, err := wire.Unmarshal(encoded); err != nil {
		t.Fatalf("unmarshal announced payload: %v", err)
	}
}

func TestVerifyEndpointUnknownShape(t *testing.T) {
	server := New(":0", newMockStore(), nil, nil, nil)

	w := postJSON(t, server.handleVerify, "/verify", map[string]any{
		"shape": "hypersphere",
		"votes": votesBody(4, 4),
	})

	// Unknown shapes degrade to invalid certificates, not HTTP errors.
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if resp["valid"] != false {
		t.Error("unknown shape must yield an invalid certificate")
	}
}

func TestVerifyEndpointMissingShape(t *testing.T) {
	server := New(":0", nil, nil, nil, nil)

	w := postJSON(t, server.handleVerify, "/verify", map[string]any{
		"votes": votesBody(4, 4),
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestVerifyEndpointEmptyBody(t *testing.T) {
	server := New(":0", nil, nil, nil, nil)

	req := httptest.NewRequest("POST", "/verify", nil)
	w := httptest.NewRecorder()
	server.handleVerify(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestDetectEndpoint(t *testing.T) {
	server := New(":0", nil, nil, nil, nil)

	w := postJSON(t, server.handleDetect, "/detect", map[string]any{
		"votes": votesBody(8, 4),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if resp["partitioned"] != true {
		t.Error("an even split must report a partition")
	}

	if resp["pieceCount"] != float64(2) {
		t.Errorf("pieceCount = %v, want 2", resp["pieceCount"])
	}

	if resp["originalShape"] != "cube" {
		t.Errorf("originalShape = %v, want cube for 8 votes", resp["originalShape"])
	}
}

func TestRecoverEndpoint(t *testing.T) {
	store := newMockStore()
	server := New(":0", store, nil, nil, nil)

	// Archive two valid cube piece certificates.
	var ids []string
	for _, prefix := range []string{"east", "west"} {
		votes := []consensus.Vote{
			consensus.NewVote(prefix+"-0", prefix, true),
			consensus.NewVote(prefix+"-1", prefix, true),
		}
		cert := consensus.Verify(votes, geometry.Cube, "piece round")
		cert.Valid = true
		cert.AgreeCount = 2

		store.Put(&wire.Envelope{Cert: cert})
		ids = append(ids, cert.ID)
	}

	w := postJSON(t, server.handleRecover, "/recover", map[string]any{
		"shape":          "cube",
		"certificateIds": ids,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if resp["success"] != true {
		t.Fatalf("recovery should succeed: %v", resp["proof"])
	}

	mapping := resp["mapping"].(map[string]any)
	if mapping["dual"] != "octahedron" {
		t.Errorf("mapped via %v, want octahedron", mapping["dual"])
	}

	plan := resp["plan"].(map[string]any)
	if plan["strategy"] != "dual" {
		t.Errorf("strategy = %v, want dual for 2 pieces", plan["strategy"])
	}

	// The recovered certificate joins the archive.
	cert := resp["certificate"].(map[string]any)
	if _, err := store.Get(cert["id"].(string)); err != nil {
		t.Error("recovered certificate should be archived")
	}
}

func TestRecoverEndpointUnknownID(t *testing.T) {
	server := New(":0", newMockStore(), nil, nil, nil)

	w := postJSON(t, server.handleRecover, "/recover", map[string]any{
		"shape":          "cube",
		"certificateIds": []string{"missing"},
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRecoverEndpointFailureShape(t *testing.T) {
	server := New(":0", newMockStore(), nil, nil, nil)

	w := postJSON(t, server.handleRecover, "/recover", map[string]any{
		"shape":          "cube",
		"certificateIds": []string{},
	})

	// Precondition failures are part of the recovery contract and still
	// return the uniform result shape.
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if resp["success"] != false {
		t.Error("empty piece list must fail recovery")
	}

	if resp["certificate"] == nil {
		t.Error("failure must still carry a certificate shell")
	}
}

func TestGetCertificateEndpoint(t *testing.T) {
	store := newMockStore()
	server := New(":0", store, nil, nil, nil)

	cert := consensus.Verify(nil, geometry.Tetrahedron, "empty round")
	store.Put(&wire.Envelope{Cert: cert})

	req := httptest.NewRequest("GET", "/certificate/"+cert.ID, nil)
	req.SetPathValue("id", cert.ID)
	w := httptest.NewRecorder()
	server.handleGetCertificate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/certificate/missing", nil)
	req.SetPathValue("id", "missing")
	w = httptest.NewRecorder()
	server.handleGetCertificate(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestListCertificatesEndpoint(t *testing.T) {
	store := newMockStore()
	server := New(":0", store, nil, nil, nil)

	for i := 0; i < 2; i++ {
		cert := consensus.Verify(nil, geometry.Octahedron, fmt.Sprintf("round %d", i))
		store.Put(&wire.Envelope{Cert: cert})
	}

	req := httptest.NewRequest("GET", "/certificates?shape=octahedron", nil)
	w := httptest.NewRecorder()
	server.handleListCertificates(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if certs := resp["certificates"].([]any); len(certs) != 2 {
		t.Errorf("listed %d certificates, want 2", len(certs))
	}

	req = httptest.NewRequest("GET", "/certificates?shape=hypersphere", nil)
	w = httptest.NewRecorder()
	server.handleListCertificates(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown shape, got %d", w.Code)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	server := New(":0", nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/catalog", nil)
	w := httptest.NewRecorder()
	server.handleCatalog(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	shapes := resp["shapes"].([]any)
	if len(shapes) != len(geometry.Kinds()) {
		t.Errorf("catalog lists %d shapes, want %d", len(shapes), len(geometry.Kinds()))
	}

	req = httptest.NewRequest("GET", "/catalog/cube", nil)
	req.SetPathValue("shape", "cube")
	w = httptest.NewRecorder()
	server.handleCatalogShape(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/catalog/hypersphere", nil)
	req.SetPathValue("shape", "hypersphere")
	w = httptest.NewRecorder()
	server.handleCatalogShape(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown shape, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := New(":0", nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	server := New(":0", nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()
	server.handleStatus(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 without a provider, got %d", w.Code)
	}
}
