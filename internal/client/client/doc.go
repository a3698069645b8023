// Package client is the data access boundary of the MedKeeper CLI.
//
// Client is the transport-agnostic contract. Every data call takes an
// explicit session.Session; there is no ambient "current user". Two
// implementations are provided:
//
//   - GRPCClient talks to the backend over gRPC, attaching the session's
//     access token to each call and mapping status codes to the sentinel
//     errors of package common.
//   - MemoryClient keeps everything in process, for tests and offline demos.
//
// InitDatabase opens the local SQLite file and applies the embedded goose
// migrations.
package client
