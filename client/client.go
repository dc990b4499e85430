// Package client is a thin HTTP client for a GeoQuorum node.
package client

import (
	"fmt"

	"GeoQuorum/internal/geometry"
)

// Client connects to a GeoQuorum node via HTTP.
type Client struct {
	nodeAddr string // nodeAddr is the HTTP address (e.g. "127.0.0.1:8080")
}

// Vote is one participant's position submitted for verification.
type Vote struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Agree         bool    `json:"agree"`
	Justification string  `json:"justification,omitempty"`
	Weight        float64 `json:"weight,omitempty"`
}

// Invariants holds the Betti numbers reported by the node.
type Invariants struct {
	B0 int `json:"b0"`
	B1 int `json:"b1"`
	B2 int `json:"b2"`
}

// Certificate is the JSON form of a consensus certificate.
type Certificate struct {
	ID            string        `json:"id"`
	Shape         geometry.Kind `json:"shape"`
	Description   string        `json:"description"`
	Votes         []Vote        `json:"votes"`
	AgreeCount    int           `json:"agreeCount"`
	RequiredCount int           `json:"requiredCount"`
	Threshold     float64       `json:"threshold"`
	Valid         bool          `json:"valid"`
	Proof         string        `json:"proof"`
	IssuedAt      string        `json:"issuedAt"`
	Partitioned   bool          `json:"partitioned"`
	PieceCount    int           `json:"pieceCount"`
	Digest        string        `json:"digest"`
	Invariants    *Invariants   `json:"invariants,omitempty"`
	Attestation   string        `json:"attestation,omitempty"`
	BlsPubkey     string        `json:"blsPubkey,omitempty"`
}

// PartitionSummary is the JSON form of a partition detection result.
type PartitionSummary struct {
	Partitioned     bool          `json:"partitioned"`
	PieceCount      int           `json:"pieceCount"`
	Pieces          [][]string    `json:"pieces"`
	OriginalShape   geometry.Kind `json:"originalShape"`
	DecomposedShape geometry.Kind `json:"decomposedShape"`
	Invariants      Invariants    `json:"invariants"`
}

// RecoveryResult is the JSON form of a recovery attempt.
type RecoveryResult struct {
	Success     bool         `json:"success"`
	Certificate *Certificate `json:"certificate"`
	Proof       string       `json:"proof"`
	Mapping     struct {
		Original geometry.Kind `json:"original"`
		Dual     geometry.Kind `json:"dual"`
		Factor   float64       `json:"factor"`
	} `json:"mapping"`
}

// Shape is the JSON form of a catalog entry.
type Shape struct {
	Kind      geometry.Kind `json:"kind"`
	Name      string        `json:"name"`
	Vertices  int           `json:"vertices"`
	Edges     int           `json:"edges"`
	Faces     int           `json:"faces"`
	Threshold float64       `json:"threshold"`
	Dual      geometry.Kind `json:"dual"`
	SelfDual  bool          `json:"selfDual"`
	Dimension int           `json:"dimension"`
	Tier      string        `json:"tier"`
	Keyword   string        `json:"keyword"`
}

// New creates a client for the node at the given HTTP address.
func New(nodeAddr string) *Client {
	return &Client{nodeAddr: nodeAddr}
}

// Verify submits a vote set for verification against a shape.
func (c *Client) Verify(shape geometry.Kind, description string, votes []Vote) (*Certificate, error) {
	body := map[string]any{
		"shape":       shape,
		"description": description,
		"votes":       votes,
	}

	var cert Certificate
	if err := httpPostJSON(c.url("/verify"), body, &cert); err != nil {
		return nil, fmt.Errorf("verify:\n%w", err)
	}

	return &cert, nil
}

// Detect submits a vote set for partition detection.
func (c *Client) Detect(votes []Vote) (*PartitionSummary, error) {
	var summary PartitionSummary
	if err := httpPostJSON(c.url("/detect"), map[string]any{"votes": votes}, &summary); err != nil {
		return nil, fmt.Errorf("detect:\n%w", err)
	}

	return &summary, nil
}

// Recover asks the node to reconcile archived piece certificates.
func (c *Client) Recover(shape geometry.Kind, certificateIDs []string) (*RecoveryResult, error) {
	body := map[string]any{
		"shape":          shape,
		"certificateIds": certificateIDs,
	}

	var result RecoveryResult
	if err := httpPostJSON(c.url("/recover"), body, &result); err != nil {
		return nil, fmt.Errorf("recover:\n%w", err)
	}

	return &result, nil
}

// Certificate fetches an archived certificate by id.
func (c *Client) Certificate(id string) (*Certificate, error) {
	var cert Certificate
	if err := httpGet(c.url("/certificate/"+id), &cert); err != nil {
		return nil, fmt.Errorf("get certificate:\n%w", err)
	}

	return &cert, nil
}

// CertificatesByShape lists archived certificates for a shape.
func (c *Client) CertificatesByShape(shape geometry.Kind) ([]Certificate, error) {
	var resp struct {
		Certificates []Certificate `json:"certificates"`
	}

	if err := httpGet(c.url("/certificates?shape="+string(shape)), &resp); err != nil {
		return nil, fmt.Errorf("list certificates:\n%w", err)
	}

	return resp.Certificates, nil
}

// Catalog fetches the full shape catalog.
func (c *Client) Catalog() ([]Shape, error) {
	var resp struct {
		Shapes []Shape `json:"shapes"`
	}

	if err := httpGet(c.url("/catalog"), &resp); err != nil {
		return nil, fmt.Errorf("get catalog:\n%w", err)
	}

	return resp.Shapes, nil
}

// CatalogShape fetches one catalog entry.
func (c *Client) CatalogShape(kind geometry.Kind) (*Shape, error) {
	var shape Shape
	if err := httpGet(c.url("/catalog/"+string(kind)), &shape); err != nil {
		return nil, fmt.Errorf("get catalog shape:\n%w", err)
	}

	return &shape, nil
}

// Health reports whether the node answers its health endpoint.
func (c *Client) Health() error {
	var resp struct {
		Status string `json:"status"`
	}

	if err := httpGet(c.url("/health"), &resp); err != nil {
		return err
	}

	if resp.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", resp.Status)
	}

	return nil
}

func (c *Client) url(path string) string {
	return "http://" + c.nodeAddr + path
}
