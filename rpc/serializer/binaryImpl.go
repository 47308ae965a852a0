package serializer

import (
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/nsKV/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey      byte = 1 << 0
	hasFeatures byte = 1 << 1
	hasKeys     byte = 1 << 2
	hasValue    byte = 1 << 3
	hasOk       byte = 1 << 4
	hasErr      byte = 1 << 5
	hasMeta     byte = 1 << 6
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Name() string { return "binary" }

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := 2 // Start after MsgType and flags

	// Handle Key
	if msg.Key != "" {
		flags |= hasKey
		pos = putString(result, pos, msg.Key)
	}

	// Handle Features
	if msg.Features > 0 {
		flags |= hasFeatures
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.Features)
		pos += 8
	}

	// Handle Keys
	if msg.Keys != nil {
		flags |= hasKeys

		// Write key count
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Keys)))
		pos += 4

		// Write each key with its length
		for _, key := range msg.Keys {
			pos = putString(result, pos, key)
		}
	}

	// Handle Value
	if msg.Value != nil {
		flags |= hasValue
		pos = putBytes(result, pos, msg.Value)
	}

	// Handle Ok
	if msg.Ok {
		flags |= hasOk
		result[pos] = 1
		pos += 1
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		pos = putString(result, pos, msg.Err)
	}

	// Handle Meta
	if msg.Meta != nil {
		flags |= hasMeta
		pos = putBytes(result, pos, msg.Meta)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := data[1]

	// Initialize read position
	pos := 2
	var err error

	// Read Key if present
	msg.Key = ""
	if flags&hasKey != 0 {
		if msg.Key, pos, err = readString(data, pos, "key"); err != nil {
			return err
		}
	}

	// Read Features if present
	msg.Features = 0
	if flags&hasFeatures != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for features")
		}

		msg.Features = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	}

	// Read Keys if present
	msg.Keys = nil
	if flags&hasKeys != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for key count")
		}

		count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		// every key needs at least its 4 byte length prefix
		if count > (len(data)-pos)/4 {
			return fmt.Errorf("data too short for %d keys", count)
		}

		msg.Keys = make([]string, count)
		for i := range msg.Keys {
			if msg.Keys[i], pos, err = readString(data, pos, "keys"); err != nil {
				return err
			}
		}
	}

	// Read Value if present
	if flags&hasValue != 0 {
		if msg.Value, pos, err = readBytes(data, pos, msg.Value, "value"); err != nil {
			return err
		}
	} else {
		msg.Value = nil
	}

	// Read Ok if present
	msg.Ok = false
	if flags&hasOk != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for Ok flag")
		}

		msg.Ok = data[pos] != 0
		pos += 1
	}

	// Read Err if present
	msg.Err = ""
	if flags&hasErr != 0 {
		if msg.Err, pos, err = readString(data, pos, "error"); err != nil {
			return err
		}
	}

	// Read Meta if present
	if flags&hasMeta != 0 {
		if msg.Meta, _, err = readBytes(data, pos, msg.Meta, "meta"); err != nil {
			return err
		}
	} else {
		msg.Meta = nil
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	// Add sizes for fields that require length encoding
	if msg.Key != "" {
		size += 4 + len(msg.Key) // 4 bytes for length + key string
	}
	if msg.Features > 0 {
		size += 8 // uint64
	}
	if msg.Keys != nil {
		size += 4 // 4 bytes for the key count
		for _, key := range msg.Keys {
			size += 4 + len(key)
		}
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value) // 4 bytes for length + value bytes
	}
	if msg.Ok {
		size += 1 // 1 byte for boolean
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}
	if msg.Meta != nil {
		size += 4 + len(msg.Meta) // 4 bytes for length + meta bytes
	}

	return size
}

// putString writes a length prefixed string and returns the new position
func putString(dst []byte, pos int, s string) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(s)))
	pos += 4
	copy(dst[pos:pos+len(s)], s)
	return pos + len(s)
}

// putBytes writes a length prefixed byte slice and returns the new position
func putBytes(dst []byte, pos int, b []byte) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(b)))
	pos += 4
	copy(dst[pos:pos+len(b)], b)
	return pos + len(b)
}

// readString reads a length prefixed string and returns it with the new position
func readString(data []byte, pos int, field string) (string, int, error) {
	if pos+4 > len(data) {
		return "", pos, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if n > len(data)-pos {
		return "", pos, fmt.Errorf("data too short for %s data", field)
	}
	return string(data[pos : pos+n]), pos + n, nil
}

// readBytes reads a length prefixed byte slice into buf and returns it with the new position.
// An empty slice (not nil) is returned for a zero length field.
func readBytes(data []byte, pos int, buf []byte, field string) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if n > len(data)-pos {
		return nil, pos, fmt.Errorf("data too short for %s data", field)
	}

	// Allocate only if needed
	if buf == nil || cap(buf) < n {
		buf = make([]byte, n)
	} else {
		buf = buf[:n]
	}
	copy(buf, data[pos:pos+n])
	return buf, pos + n, nil
}
