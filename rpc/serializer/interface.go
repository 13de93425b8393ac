package serializer

import "github.com/ValentinKolb/dTree/rpc/common"

// IRPCSerializer converts messages to and from their wire representation
type IRPCSerializer interface {
	// Serialize encodes a Message
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes b into msg. Every field of msg is overwritten, fields
	// missing in b are reset to their zero value.
	Deserialize(b []byte, msg *common.Message) error
}
