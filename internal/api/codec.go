// Package api describes the MedKeeper gRPC service: its messages, the
// service descriptor used by the server and a typed client stub.
//
// Messages travel as JSON. Protobuf well-known types (emptypb.Empty) are
// encoded with protojson; everything else with encoding/json.
package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content-subtype of the codec ("application/grpc+json").
const CodecName = "json"

// Codec implements encoding.Codec.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(Codec{})
}
