// Package wire converts entities to and from the service's XML dialect.
//
// Encode builds an outbound document from an entity; Decode and DecodeList
// rebuild entities from inbound documents. Both directions are pure
// transforms over one document and either succeed completely or return an
// error. Output uses self-closing tags for empty elements, escapes only
// the characters XML requires, and carries no declaration.
package wire
