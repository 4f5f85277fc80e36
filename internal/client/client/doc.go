// Package client contains the CLI's side of the gateway connection and its
// local cache bootstrap.
//
// # Overview
//
//  1. Client is the transport-agnostic contract used by the CLI services:
//     Ping, IssueToken, ValidateScan, ScanHistory, ListScans, CorrectScan.
//  2. GRPCClient implements it over the JSON-coded gRPC stub in internal/api.
//     A unary interceptor attaches the bearer token to every call and bounds
//     calls that carry no deadline.
//  3. InitDatabase and RunMigrations open the SQLite cache and apply the
//     embedded goose migrations; NewRepositories wires its repositories.
//
// # Error Handling
//
// gRPC statuses become errors that callers match with errors.Is:
// ErrUnavailable, ErrUnauthorized, common.ErrIneligible,
// common.ErrInvalidArgument and common.ErrorNotFound.
package client
