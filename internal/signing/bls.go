// Package signing provides BLS attestation over certificate digests.
// Nodes attest to the certificates they verified; attestations over the
// same digest aggregate into a single proof that a quorum of nodes saw
// the same decision.
package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
	"github.com/zeebo/blake3"
)

const (
	// PublicKeySize is the size of a compressed BLS public key in bytes.
	PublicKeySize = 48

	// AttestationSize is the size of a compressed BLS signature in bytes.
	AttestationSize = 96
)

// blsDST is the domain separation tag for BLS signatures.
var blsDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_")

// KeyPair holds a BLS private/public key pair.
type KeyPair struct {
	secret *blst.SecretKey // secret is the private key
	public *blst.P1Affine  // public is the public key
}

// DeriveKeyPair derives a deterministic BLS key pair from an ED25519
// private key. The BLS key is bound to the node's identity via
// BLAKE3("geoquorum-bls-keygen" || seed).
func DeriveKeyPair(privKey ed25519.PrivateKey) (*KeyPair, error) {
	seed := privKey.Seed()
	h := blake3.New()
	h.Write([]byte("geoquorum-bls-keygen"))
	h.Write(seed)

	var derived [32]byte
	h.Sum(derived[:0])

	return NewKeyPairFromSeed(derived[:])
}

// NewKeyPair creates a new BLS key pair from a random seed.
func NewKeyPair() (*KeyPair, error) {
	var ikm [32]byte
	if _, err := rand.Read(ikm[:]); err != nil {
		return nil, fmt.Errorf("generate random seed:\n%w", err)
	}

	return NewKeyPairFromSeed(ikm[:])
}

// NewKeyPairFromSeed creates a BLS key pair from a deterministic seed.
// The seed must be at least 32 bytes.
func NewKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) < 32 {
		return nil, fmt.Errorf("seed must be at least 32 bytes")
	}

	secret := blst.KeyGen(seed)
	if secret == nil {
		return nil, fmt.Errorf("failed to generate BLS key")
	}

	public := new(blst.P1Affine).From(secret)

	return &KeyPair{
		secret: secret,
		public: public,
	}, nil
}

// Attest creates a BLS signature over a certificate digest.
func (k *KeyPair) Attest(digest [32]byte) []byte {
	sig := new(blst.P2Affine).Sign(k.secret, digest[:], blsDST)
	return sig.Compress()
}

// PublicKeyBytes returns the compressed public key bytes.
func (k *KeyPair) PublicKeyBytes() []byte {
	return k.public.Compress()
}

// VerifyAttestation checks a BLS attestation against a digest and public key.
func VerifyAttestation(attestation []byte, digest [32]byte, publicKey []byte) bool {
	if len(attestation) != AttestationSize || len(publicKey) != PublicKeySize {
		return false
	}

	sig := new(blst.P2Affine).Uncompress(attestation)
	if sig == nil {
		return false
	}

	pk := new(blst.P1Affine).Uncompress(publicKey)
	if pk == nil {
		return false
	}

	return sig.Verify(true, pk, true, digest[:], blsDST)
}

// AggregateAttestations combines multiple BLS attestations into one.
// All attestations must be over the same digest.
func AggregateAttestations(attestations [][]byte) ([]byte, error) {
	if len(attestations) == 0 {
		return nil, fmt.Errorf("no attestations to aggregate")
	}

	sigs := make([]*blst.P2Affine, len(attestations))

	for i, sigBytes := range attestations {
		if len(sigBytes) != AttestationSize {
			return nil, fmt.Errorf("invalid attestation size at index %d", i)
		}

		sig := new(blst.P2Affine).Uncompress(sigBytes)
		if sig == nil {
			return nil, fmt.Errorf("invalid attestation at index %d", i)
		}

		sigs[i] = sig
	}

	agg := new(blst.P2Aggregate)
	if !agg.Aggregate(sigs, true) {
		return nil, fmt.Errorf("attestation aggregation failed")
	}

	return agg.ToAffine().Compress(), nil
}

// VerifyAggregate verifies an aggregated attestation against a digest
// and multiple public keys.
func VerifyAggregate(attestation []byte, digest [32]byte, publicKeys [][]byte) bool {
	if len(attestation) != AttestationSize || len(publicKeys) == 0 {
		return false
	}

	sig := new(blst.P2Affine).Uncompress(attestation)
	if sig == nil {
		return false
	}

	pks := make([]*blst.P1Affine, len(publicKeys))

	for i, pkBytes := range publicKeys {
		if len(pkBytes) != PublicKeySize {
			return false
		}

		pk := new(blst.P1Affine).Uncompress(pkBytes)
		if pk == nil {
			return false
		}

		pks[i] = pk
	}

	aggPk := new(blst.P1Aggregate)
	if !aggPk.Aggregate(pks, true) {
		return false
	}

	return sig.Verify(true, aggPk.ToAffine(), true, digest[:], blsDST)
}

// BuildPieceBitmap creates a bitmap indicating which partition pieces
// contributed an attestation. indices contains the piece indices that
// attested, total is the piece count.
func BuildPieceBitmap(indices []int, total int) []byte {
	numBytes := (total + 7) / 8
	bitmap := make([]byte, numBytes)

	for _, idx := range indices {
		if idx >= 0 && idx < total {
			bitmap[idx/8] |= 1 << (idx % 8)
		}
	}

	return bitmap
}

// ParsePieceBitmap extracts the piece indices from a bitmap.
func ParsePieceBitmap(bitmap []byte) []int {
	var indices []int

	for byteIdx, b := range bitmap {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<bit) != 0 {
				indices = append(indices, byteIdx*8+bit)
			}
		}
	}

	return indices
}
