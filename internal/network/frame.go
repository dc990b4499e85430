package network

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Message types carried on mesh streams.
const (
	// msgAnnounce carries a compressed certificate envelope.
	msgAnnounce = byte(0x01)

	// msgShapeRequest asks a peer for all certificates of one shape.
	msgShapeRequest = byte(0x02)

	// msgShapeResponse carries the requested certificate payloads.
	msgShapeResponse = byte(0x03)
)

const (
	// maxFrameSize is the maximum allowed frame size (16 MB).
	maxFrameSize = 16 << 20

	// lengthPrefixSize is the size of the length prefix in bytes.
	lengthPrefixSize = 4
)

// writeFrame writes a typed, length-prefixed frame to the writer.
// Format: [4 bytes big-endian length] [1 byte type] [payload]
func writeFrame(w io.Writer, msgType byte, payload []byte) error {
	if len(payload)+1 > maxFrameSize {
		return fmt.Errorf("frame too large: %d > %d", len(payload)+1, maxFrameSize)
	}

	var lengthBuf [lengthPrefixSize]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(payload)+1))

	if _, err := w.Write(lengthBuf[:]); err != nil {
		return fmt.Errorf("write length: %w", err)
	}

	if _, err := w.Write([]byte{msgType}); err != nil {
		return fmt.Errorf("write type: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}

	return nil
}

// readFrame reads a typed, length-prefixed frame from the reader.
func readFrame(r io.Reader) (byte, []byte, error) {
	var lengthBuf [lengthPrefixSize]byte

	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return 0, nil, fmt.Errorf("read length: %w", err)
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])

	if length == 0 {
		return 0, nil, fmt.Errorf("empty frame")
	}

	if length > maxFrameSize {
		return 0, nil, fmt.Errorf("frame too large: %d > %d", length, maxFrameSize)
	}

	body := make([]byte, length)

	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("read payload: %w", err)
	}

	return body[0], body[1:], nil
}

// encodePayloadList packs multiple payloads into one frame body.
// Format: [4 bytes count] then per payload [4 bytes length] [bytes].
func encodePayloadList(payloads [][]byte) []byte {
	size := 4
	for _, p := range payloads {
		size += 4 + len(p)
	}

	out := make([]byte, 0, size)

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(len(payloads)))
	out = append(out, buf[:]...)

	for _, p := range payloads {
		binary.BigEndian.PutUint32(buf[:], uint32(len(p)))
		out = append(out, buf[:]...)
		out = append(out, p...)
	}

	return out
}

// decodePayloadList unpacks a frame body produced by encodePayloadList.
func decodePayloadList(data []byte) ([][]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("truncated payload list")
	}

	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]

	payloads := make([][]byte, 0, count)

	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, fmt.Errorf("truncated payload %d header", i)
		}

		length := binary.BigEndian.Uint32(data[:4])
		data = data[4:]

		if uint32(len(data)) < length {
			return nil, fmt.Errorf("truncated payload %d body", i)
		}

		payloads = append(payloads, data[:length:length])
		data = data[length:]
	}

	return payloads, nil
}
