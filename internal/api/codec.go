package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName matches the "application/json" content type, so plain curl
// requests work against the handlers.
const codecName = "json"

// jsonCodec carries the plain Go message structs of this package over
// Connect using encoding/json.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
