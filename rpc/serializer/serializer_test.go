package serializer

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dTree/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Read request
		*common.NewReadRequest("local", "/a/b"),

		// Write request
		*common.NewWriteRequest("cache", "/settings/theme", []byte(`"dark"`)),

		// Delete request on the root
		*common.NewDeleteRequest("local", "/"),

		// Tagged read response
		*common.NewValueResponse(common.MsgTRead, []byte(`123`), 0b10),

		// Schemes response
		*common.NewSchemesResponse([]byte(`["local","cache"]`)),

		// Error response with adapter code
		*common.NewErrorResponse(2, "environment does not support persistent storage"),

		// Message with all fields filled
		{
			MsgType: common.MsgTRead,
			Scheme:  "local",
			Path:    "/a",
			Value:   []byte(`{"x":[1,2,3]}`),
			Ok:      true,
			Origin:  0b11,
			Code:    4,
			Err:     "boom",
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				var result common.Message
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for msgType := common.MsgTSuccess; msgType <= common.MsgTSchemes; msgType++ {
				msg := common.Message{MsgType: msgType}

				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				var result common.Message
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestBinarySerializerSpecific tests specific edge cases for the binary serializer
func TestBinarySerializerSpecific(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name string
		msg  common.Message
	}{
		{
			name: "Empty message",
			msg:  common.Message{},
		},
		{
			name: "Empty value slice but not nil",
			msg: common.Message{
				MsgType: common.MsgTWrite,
				Path:    "/a",
				Value:   []byte{},
			},
		},
		{
			name: "Ok without value",
			msg: common.Message{
				MsgType: common.MsgTSchemes,
				Ok:      true,
			},
		},
		{
			name: "Unicode path and scheme",
			msg: common.Message{
				MsgType: common.MsgTRead,
				Scheme:  "lökal",
				Path:    "/ä/ö/ü/€",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := serializer.Serialize(tc.msg)
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}

			var result common.Message
			if err := serializer.Deserialize(data, &result); err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}

			if tc.msg.Scheme != result.Scheme || tc.msg.Path != result.Path {
				t.Errorf("Scheme/Path mismatch: expected %q %q, got %q %q", tc.msg.Scheme, tc.msg.Path, result.Scheme, result.Path)
			}
			if tc.msg.Ok != result.Ok {
				t.Errorf("Ok mismatch: expected %v, got %v", tc.msg.Ok, result.Ok)
			}
			if tc.msg.MsgType != result.MsgType {
				t.Errorf("MsgType mismatch: expected %v, got %v", tc.msg.MsgType, result.MsgType)
			}

			// nil and empty values are distinct
			if (tc.msg.Value == nil) != (result.Value == nil) {
				t.Errorf("Value nil/non-nil mismatch: expected %v, got %v", tc.msg.Value, result.Value)
			} else if !bytes.Equal(tc.msg.Value, result.Value) {
				t.Errorf("Value mismatch: expected %v, got %v", tc.msg.Value, result.Value)
			}
		})
	}
}

// TestDeserializeResetsFields tests that decoding into a used message clears old fields
func TestDeserializeResetsFields(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			data, err := serializer.Serialize(common.Message{MsgType: common.MsgTSuccess})
			if err != nil {
				t.Fatal(err)
			}

			msg := common.Message{Scheme: "old", Path: "/old", Value: []byte("x"), Ok: true, Origin: 1, Code: 1, Err: "old"}
			if err := serializer.Deserialize(data, &msg); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(msg, common.Message{MsgType: common.MsgTSuccess}) {
				t.Errorf("Deserialize() left stale fields: %+v", msg)
			}
		})
	}
}

// TestBinaryValueDoesNotAlias tests that decoded values do not share memory with the input buffer
func TestBinaryValueDoesNotAlias(t *testing.T) {
	serializer := NewBinarySerializer()

	data, err := serializer.Serialize(*common.NewWriteRequest("local", "/a", []byte("abc")))
	if err != nil {
		t.Fatal(err)
	}

	var msg common.Message
	if err := serializer.Deserialize(data, &msg); err != nil {
		t.Fatal(err)
	}
	for i := range data {
		data[i] = 0
	}
	if string(msg.Value) != "abc" {
		t.Errorf("Value changed with the input buffer: %q", msg.Value)
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{1}, // Only message type, no flags
			expectError: true,
		},
		{
			name:        "Valid header only",
			data:        []byte{1, 0}, // Message type 1, no flags
			expectError: false,
		},
		{
			name:        "Invalid length for scheme",
			data:        []byte{3, 1, 0, 0, 0, 5, 'a', 'b', 'c'}, // Claims scheme length 5 but only 3 bytes provided
			expectError: true,
		},
		{
			name:        "Invalid length for value",
			data:        []byte{3, 4, 0, 0, 0, 10}, // Claims value length 10 but no bytes provided
			expectError: true,
		},
		{
			name:        "Missing origin byte",
			data:        []byte{3, 16},
			expectError: true,
		},
		{
			name:        "Truncated code",
			data:        []byte{2, 32, 0, 0, 0},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
