// package models defines resource kinds and identifier resolution for the Spotify catalog
package models

import (
	"fmt"
	"strings"

	"spores/internal/shared"
)

// Kind identifies the type of a Spotify catalog resource.
type Kind string

const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindArtist   Kind = "artist"
	KindPlaylist Kind = "playlist"
	KindUser     Kind = "user"
	KindEpisode  Kind = "episode"
	KindUnknown  Kind = "unknown"
)

// ParseKind maps user input to a resource kind usable in commands.
// Episode and user resources are recognized elsewhere in API payloads
// but are not valid command input.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindTrack:
		return KindTrack, nil
	case KindAlbum:
		return KindAlbum, nil
	case KindArtist:
		return KindArtist, nil
	case KindPlaylist:
		return KindPlaylist, nil
	default:
		return KindUnknown, fmt.Errorf("%w: unknown type %q (expected track, album, artist or playlist)", shared.ErrInvalidFlag, s)
	}
}

// Plural returns the kind's plural form as used in search response keys.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// ResourceRef is a resolved reference to a single catalog resource.
type ResourceRef struct {
	Kind Kind
	ID   string
}

// URI renders the reference in Spotify URI form, e.g. "spotify:track:abc123".
func (r ResourceRef) URI() string {
	return fmt.Sprintf("spotify:%s:%s", r.Kind, r.ID)
}

// Resolve extracts a resource reference from raw user input. Input shaped
// like a three-segment URI ("spotify:track:abc") must name the expected
// kind in its middle segment; anything else passes through verbatim as an
// opaque ID, including strings with more or fewer colon-separated parts.
func Resolve(kind Kind, input string) (ResourceRef, error) {
	parts := strings.Split(input, ":")
	if len(parts) == 3 {
		if parts[1] != string(kind) {
			return ResourceRef{}, fmt.Errorf("%w: expected a %s URI, got %q (a %s)", shared.ErrMalformedID, kind, input, parts[1])
		}
		return ResourceRef{Kind: kind, ID: parts[2]}, nil
	}
	return ResourceRef{Kind: kind, ID: input}, nil
}
