// Package serializer converts common.Message values to bytes and back.
//
// Three codecs implement IRPCSerializer:
//
//   - NewBinarySerializer: a compact hand-written format. The first bytes hold the
//     message type and a flag byte that marks which fields follow. Strings and the
//     JSON value are length prefixed, Ok is carried by its flag alone. Decoded
//     values never share memory with the input buffer.
//
//   - NewJSONSerializer: encoding/json, readable on the wire and used by default
//     together with the http transport.
//
//   - NewGOBSerializer: encoding/gob, mainly useful for comparison. It produces the
//     largest frames for the small messages of the tree protocol.
//
// Client and server must use the same codec. All codecs are stateless and can be
// shared between goroutines. Deserialize always overwrites the complete message,
// so a message value can be reused for the next request.
//
// Usage:
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.Serialize(*common.NewReadRequest("local", "/settings/theme"))
//	// ... send data ...
//	var resp common.Message
//	err = s.Deserialize(respData, &resp)
package serializer
