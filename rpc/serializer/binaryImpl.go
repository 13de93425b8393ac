package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dTree/rpc/common"
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
	hasScheme byte = 1 << 0
	hasPath   byte = 1 << 1
	hasValue  byte = 1 << 2
	hasOk     byte = 1 << 3
	hasOrigin byte = 1 << 4
	hasCode   byte = 1 << 5
	hasErr    byte = 1 << 6
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	result := make([]byte, b.sizeBytes(msg))

	// Header: message type, flags are written last
	result[0] = byte(msg.MsgType)
	var flags byte = 0
	pos := 2

	if msg.Scheme != "" {
		flags |= hasScheme
		pos = putBytes(result, pos, []byte(msg.Scheme))
	}

	if msg.Path != "" {
		flags |= hasPath
		pos = putBytes(result, pos, []byte(msg.Path))
	}

	if msg.Value != nil {
		flags |= hasValue
		pos = putBytes(result, pos, msg.Value)
	}

	// Ok is fully described by its flag
	if msg.Ok {
		flags |= hasOk
	}

	if msg.Origin != 0 {
		flags |= hasOrigin
		result[pos] = msg.Origin
		pos += 1
	}

	if msg.Code != 0 {
		flags |= hasCode
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.Code)
		pos += 8
	}

	if msg.Err != "" {
		flags |= hasErr
		pos = putBytes(result, pos, []byte(msg.Err))
	}

	result[1] = flags
	return result[:pos], nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	pos := 2

	var err error
	var raw []byte

	// Scheme
	msg.Scheme = ""
	if flags&hasScheme != 0 {
		if raw, pos, err = readBytes(data, pos, "scheme"); err != nil {
			return err
		}
		msg.Scheme = string(raw)
	}

	// Path
	msg.Path = ""
	if flags&hasPath != 0 {
		if raw, pos, err = readBytes(data, pos, "path"); err != nil {
			return err
		}
		msg.Path = string(raw)
	}

	// Value - an empty slice (not nil) is kept if the length is 0
	msg.Value = nil
	if flags&hasValue != 0 {
		if raw, pos, err = readBytes(data, pos, "value"); err != nil {
			return err
		}
		msg.Value = make([]byte, len(raw))
		copy(msg.Value, raw)
	}

	msg.Ok = flags&hasOk != 0

	// Origin
	msg.Origin = 0
	if flags&hasOrigin != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for origin")
		}
		msg.Origin = data[pos]
		pos += 1
	}

	// Code
	msg.Code = 0
	if flags&hasCode != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for code")
		}
		msg.Code = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	}

	// Err
	msg.Err = ""
	if flags&hasErr != 0 {
		if raw, _, err = readBytes(data, pos, "error"); err != nil {
			return err
		}
		msg.Err = string(raw)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the maximum size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.Scheme != "" {
		size += 4 + len(msg.Scheme)
	}
	if msg.Path != "" {
		size += 4 + len(msg.Path)
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value)
	}
	if msg.Origin != 0 {
		size += 1
	}
	if msg.Code != 0 {
		size += 8
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}

	return size
}

// putBytes writes a length prefixed byte slice at pos and returns the new position
func putBytes(dst []byte, pos int, src []byte) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(src)))
	pos += 4
	copy(dst[pos:pos+len(src)], src)
	return pos + len(src)
}

// readBytes reads a length prefixed byte slice at pos, the result aliases data
func readBytes(data []byte, pos int, field string) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	if pos+n > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s data", field)
	}
	return data[pos : pos+n], pos + n, nil
}
