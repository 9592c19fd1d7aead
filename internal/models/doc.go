// Package models defines the resource vocabulary shared by every command.
//
// The package contains two categories of types:
//
// 1. Resource kinds: the closed set of catalog entities the CLI understands
//   - [Kind] : String enum over track, album, artist, playlist, user and episode
//   - [ParseKind] : Maps user input to a kind, rejecting anything outside the command surface
//
// 2. Identifier resolution: turning raw CLI arguments into API-ready references
//   - [ResourceRef] : A kind paired with an opaque Spotify ID
//   - [Resolve] : Accepts bare IDs verbatim and unwraps three-segment "spotify:kind:id" URIs
//
// Resolution never guesses: a URI naming a different kind than the command
// expects is rejected rather than reinterpreted, and anything that is not a
// three-segment URI is treated as an opaque ID and sent to the API as-is.
package models
