package spotify

import "encoding/json"

// Paging is Spotify's offset pagination envelope.
type Paging[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

type followers struct {
	Total int `json:"total"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// Owner identifies the user a playlist belongs to.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type trackRollup struct {
	Total int `json:"total"`
}

// User represents the authenticated user's profile.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Followers   followers `json:"followers"`
}

// SimplePlaylist represents the simplified playlist object used in list responses.
type SimplePlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Public       bool         `json:"public"`
	Owner        Owner        `json:"owner"`
	Tracks       trackRollup  `json:"tracks"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// Playlist represents the full playlist object.
type Playlist struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	Public        bool         `json:"public"`
	Collaborative bool         `json:"collaborative"`
	Owner         Owner        `json:"owner"`
	Followers     followers    `json:"followers"`
	Tracks        trackRollup  `json:"tracks"`
	ExternalURLs  externalURLs `json:"external_urls"`
	SnapshotID    string       `json:"snapshot_id"`
}

// PlaylistEntry represents one row of a playlist's track listing. The track
// stays raw because an entry may hold a track, an episode, or null when the
// content has been removed from the catalog.
type PlaylistEntry struct {
	AddedAt string          `json:"added_at"`
	Track   json.RawMessage `json:"track"`
}

// HasTrack reports whether the entry still references playable content.
func (e PlaylistEntry) HasTrack() bool {
	return len(e.Track) > 0 && string(e.Track) != "null"
}
