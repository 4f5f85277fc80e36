// Package api defines the gRPC contract between the access gateway and its
// clients: request/response types, a JSON codec, the service descriptor and
// a typed client stub.
//
// Messages are plain Go structs marshalled as JSON. Both sides must select
// the codec with the CodecName content subtype; the client stub does that
// on every call.
package api
