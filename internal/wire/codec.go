// Package wire encodes certificates for storage and transport. The
// binary format is FlatBuffers; archive and mesh payloads additionally
// pass through zstd.
package wire

import (
	"fmt"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"

	"GeoQuorum/internal/consensus"
	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/topology"
	"GeoQuorum/internal/types"
)

// Envelope bundles a certificate with its transport metadata: the
// issuing node's BLS attestation over the certificate digest and the
// matching public key. Attestation fields are empty for unattested
// certificates.
type Envelope struct {
	Cert        *consensus.Certificate
	Attestation []byte
	Pubkey      []byte
}

// Marshal serializes an envelope into FlatBuffers bytes.
func Marshal(env *Envelope) ([]byte, error) {
	if env == nil || env.Cert == nil {
		return nil, fmt.Errorf("nil certificate")
	}

	cert := env.Cert
	builder := flatbuffers.NewBuilder(1024 + len(cert.Votes)*128 + len(cert.Proof))

	voteOffsets := make([]flatbuffers.UOffsetT, len(cert.Votes))
	for i, v := range cert.Votes {
		id := builder.CreateString(v.ID)
		name := builder.CreateString(v.Name)
		justification := builder.CreateString(v.Justification)

		types.WireVoteStart(builder)
		types.WireVoteAddId(builder, id)
		types.WireVoteAddName(builder, name)
		types.WireVoteAddAgree(builder, v.Agree)
		types.WireVoteAddJustification(builder, justification)
		types.WireVoteAddWeight(builder, v.Weight)
		voteOffsets[i] = types.WireVoteEnd(builder)
	}

	types.WireCertificateStartVotesVector(builder, len(voteOffsets))
	for i := len(voteOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(voteOffsets[i])
	}
	votesVec := builder.EndVector(len(voteOffsets))

	var invOffset flatbuffers.UOffsetT
	if cert.Invariants != nil {
		types.WireInvariantsStart(builder)
		types.WireInvariantsAddB0(builder, uint32(cert.Invariants.B0))
		types.WireInvariantsAddB1(builder, uint32(cert.Invariants.B1))
		types.WireInvariantsAddB2(builder, uint32(cert.Invariants.B2))
		invOffset = types.WireInvariantsEnd(builder)
	}

	id := builder.CreateString(cert.ID)
	shape := builder.CreateString(string(cert.Shape))
	description := builder.CreateString(cert.Description)
	proof := builder.CreateString(cert.Proof)

	digest := cert.Digest()
	digestVec := builder.CreateByteVector(digest[:])

	var attVec, pubVec flatbuffers.UOffsetT
	if len(env.Attestation) > 0 {
		attVec = builder.CreateByteVector(env.Attestation)
	}
	if len(env.Pubkey) > 0 {
		pubVec = builder.CreateByteVector(env.Pubkey)
	}

	types.WireCertificateStart(builder)
	types.WireCertificateAddId(builder, id)
	types.WireCertificateAddShape(builder, shape)
	types.WireCertificateAddDescription(builder, description)
	types.WireCertificateAddVotes(builder, votesVec)
	types.WireCertificateAddAgreeCount(builder, uint32(cert.AgreeCount))
	types.WireCertificateAddRequiredCount(builder, uint32(cert.RequiredCount))
	types.WireCertificateAddThreshold(builder, cert.Threshold)
	types.WireCertificateAddValid(builder, cert.Valid)
	types.WireCertificateAddProof(builder, proof)
	types.WireCertificateAddIssuedAtUnixNano(builder, cert.IssuedAt.UnixNano())
	if invOffset != 0 {
		types.WireCertificateAddInvariants(builder, invOffset)
	}
	types.WireCertificateAddPartitioned(builder, cert.Partitioned)
	types.WireCertificateAddPieceCount(builder, uint32(cert.PieceCount))
	types.WireCertificateAddDigest(builder, digestVec)
	if attVec != 0 {
		types.WireCertificateAddAttestation(builder, attVec)
	}
	if pubVec != 0 {
		types.WireCertificateAddBlsPubkey(builder, pubVec)
	}

	builder.Finish(types.WireCertificateEnd(builder))

	return builder.FinishedBytes(), nil
}

// Unmarshal deserializes FlatBuffers bytes back into an envelope. The
// shape snapshot is re-resolved from the catalog; an unknown shape on
// the wire leaves the snapshot zero-valued, matching a degraded
// verification.
func Unmarshal(data []byte) (*Envelope, error) {
	if len(data) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("truncated certificate: %d bytes", len(data))
	}

	wc := types.GetRootAsWireCertificate(data, 0)

	cert := &consensus.Certificate{
		ID:            string(wc.Id()),
		Shape:         geometry.Kind(wc.Shape()),
		Description:   string(wc.Description()),
		AgreeCount:    int(wc.AgreeCount()),
		RequiredCount: int(wc.RequiredCount()),
		Threshold:     wc.Threshold(),
		Valid:         wc.Valid(),
		Proof:         string(wc.Proof()),
		IssuedAt:      time.Unix(0, wc.IssuedAtUnixNano()),
		Partitioned:   wc.Partitioned(),
		PieceCount:    int(wc.PieceCount()),
	}

	if shape, err := geometry.Lookup(cert.Shape); err == nil {
		cert.ShapeRecord = shape
	}

	n := wc.VotesLength()
	if n > 0 {
		cert.Votes = make([]consensus.Vote, n)

		var wv types.WireVote
		for i := 0; i < n; i++ {
			if !wc.Votes(&wv, i) {
				return nil, fmt.Errorf("vote %d out of range", i)
			}

			cert.Votes[i] = consensus.Vote{
				ID:            string(wv.Id()),
				Name:          string(wv.Name()),
				Agree:         wv.Agree(),
				Justification: string(wv.Justification()),
				Weight:        wv.Weight(),
			}
		}
	}

	if inv := wc.Invariants(nil); inv != nil {
		cert.Invariants = &topology.Invariants{
			B0: int(inv.B0()),
			B1: int(inv.B1()),
			B2: int(inv.B2()),
		}
	}

	env := &Envelope{Cert: cert}

	if att := wc.AttestationBytes(); len(att) > 0 {
		env.Attestation = append([]byte(nil), att...)
	}
	if pub := wc.BlsPubkeyBytes(); len(pub) > 0 {
		env.Pubkey = append([]byte(nil), pub...)
	}

	return env, nil
}

// Compress compresses encoded bytes using zstd.
func Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create encoder:\n%w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses zstd-compressed bytes.
func Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decoder:\n%w", err)
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}
