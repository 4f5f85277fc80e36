package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ScanType tells whether a holder is entering or leaving the library.
type ScanType string

const (
	ScanEntry ScanType = "entry"
	ScanExit  ScanType = "exit"
)

// Valid reports whether t is one of the known scan types.
func (t ScanType) Valid() bool {
	return t == ScanEntry || t == ScanExit
}

// Outcome is the result of a validation attempt as recorded in the audit log.
type Outcome string

const (
	OutcomeGranted Outcome = "granted"
	OutcomeDenied  Outcome = "denied"
)

func (o Outcome) Valid() bool {
	return o == OutcomeGranted || o == OutcomeDenied
}

// Role is the application role carried by access tokens and QR claims.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}
