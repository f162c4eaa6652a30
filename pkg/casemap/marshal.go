package casemap

import (
	"github.com/mesh-intelligence/casemap/internal/wire"
	"github.com/mesh-intelligence/casemap/pkg/types"
)

// DecodeOptions controls how inbound documents are parsed.
type DecodeOptions = wire.DecodeOptions

// Marshal renders e as an outbound document.
func Marshal(e *types.Entity) ([]byte, error) {
	return wire.Encode(e)
}

// Unmarshal parses one entity document.
func Unmarshal(data []byte, opts DecodeOptions) (*types.Entity, error) {
	return wire.Decode(data, opts)
}

// UnmarshalList parses an Entities listing.
func UnmarshalList(data []byte, opts DecodeOptions) (*types.List, error) {
	return wire.DecodeList(data, opts)
}
