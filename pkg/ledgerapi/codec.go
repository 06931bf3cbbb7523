// Package ledgerapi is the wire contract of the splitledger services: message
// types, procedure names, typed clients and handler constructors for Connect.
//
// Messages are plain Go structs encoded as JSON, and money travels as a
// decimal string such as "33.33".
package ledgerapi

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name, sent as application/json.
const CodecName = "json"

type jsonCodec struct{}

// Codec returns the JSON codec used by both the handlers and the clients.
func Codec() connect.Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string {
	return CodecName
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
