package base

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
)

const headerSize = 14

// writeFrame writes a frame to the connection with the format:
// - 2 bytes: backend name length (uint16, big endian)
// - 8 bytes: requestID (uint64, big endian)
// - 4 bytes: data length (uint32, big endian)
// - N bytes: backend name
// - M bytes: data payload
func writeFrame(conn net.Conn, backendName string, requestID uint64, data []byte) error {
	if len(backendName) > math.MaxUint16 {
		return fmt.Errorf("backend name too long (%d bytes)", len(backendName))
	}

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint16(header[:2], uint16(len(backendName)))
	binary.BigEndian.PutUint64(header[2:10], requestID)
	binary.BigEndian.PutUint32(header[10:14], uint32(len(data)))

	b := net.Buffers{header, []byte(backendName), data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads a frame from the connection using the provided buffer for the payload.
// If the buffer is too small, it will allocate a new temporary buffer for the data
func readFrame(conn io.Reader, buf []byte) (string, uint64, []byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(conn, header); err != nil {
		return "", 0, nil, err
	}

	// Parse header
	nameLength := binary.BigEndian.Uint16(header[:2])
	requestID := binary.BigEndian.Uint64(header[2:10])
	contentLength := binary.BigEndian.Uint32(header[10:14])

	name := make([]byte, nameLength)
	if _, err := io.ReadFull(conn, name); err != nil {
		return "", requestID, nil, err
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return string(name), requestID, []byte{}, nil
	}

	// Check if buffer is large enough for data
	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(conn, buf[:contentLength]); err != nil {
		return "", requestID, nil, err
	}

	return string(name), requestID, buf[:contentLength], nil
}
