package ir

import (
	json "github.com/goccy/go-json"
)

// EncodeJSON serializes the bundle for out-of-process engines. Callables and
// Go type references are excluded; everything else is emitted in the stable
// order established at build time, so the output is deterministic for a given
// registry.
func (b *SchemaBundle) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}
