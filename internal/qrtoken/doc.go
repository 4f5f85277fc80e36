// Package qrtoken implements the library access token carried in QR codes.
//
// A Claim is the plaintext assertion about a holder at issuance time. The
// Codec turns it into an Envelope: the canonical claim JSON encrypted with
// AES-256-CBC under the shared key and a fixed zero IV, base64 encoded, plus
// a keyed SHA-256 over that text. The Envelope JSON is the exact string
// rendered into the QR image.
//
// The byte-level format is pinned by testdata/conformance.json. Any other
// implementation of the scheme must reproduce those vectors.
package qrtoken
