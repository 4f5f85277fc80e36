// Package services contains the application services behind the access CLI.
//
//   - HolderService obtains access codes from the gateway, keeps the latest
//     one in a sealed local cache and refreshes it before it expires.
//   - ScannerService submits scanned payloads and browses the audit log.
//   - SessionService reports connectivity and who the CLI is signed in as.
package services
