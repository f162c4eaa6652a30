// Package casemap is the public entry point of the marshaling engine. It
// converts entities to and from the service's XML dialect and drives a
// caller-supplied Transport for create, update, get, list and delete calls.
//
// The package never opens a connection. Authentication, retries and query
// building belong to the Transport implementation.
package casemap

// Version is the casemap release version.
const Version = "0.1.0"
