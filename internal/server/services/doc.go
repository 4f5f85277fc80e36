// Package services contains the gateway's business logic: issuing access
// codes, validating scans and keeping the scan audit trail.
package services
