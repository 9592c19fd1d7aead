// Package auth owns the OAuth2 token lifecycle for the CLI.
//
// # Token Cache
//
// [TokenStore] persists a single [Credential] as a small JSON file next to
// the config file. A missing cache is a normal state (first run); a corrupt
// or unreadable cache is an error, so a broken file never silently triggers
// a second app authorization.
//
// # Session
//
// [Session] decides, once per invocation, how to produce a usable access
// token:
//
//   - cache holds a fresh credential: reuse it, zero network calls
//   - cache holds a stale credential: one refresh against the accounts
//     service, then persist
//   - cache empty: run the interactive authorization code flow through a
//     loopback HTTP server (internal/server) and the user's browser
//
// A Session lives for one CLI invocation and is not safe for concurrent
// use. When several processes share a cache file the last writer wins.
package auth
