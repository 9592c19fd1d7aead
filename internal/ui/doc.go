// Package ui defines the lipgloss styles for interactive prompt output.
//
// Command results are always a single JSON document on stdout; everything a
// human reads during the authorization flow and the configure wizard goes to
// stderr, styled through the [Palette].
package ui
