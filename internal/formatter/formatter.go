// package formatter normalizes raw Spotify API items into a closed set of typed records
package formatter

import (
	"encoding/json"

	"spores/internal/models"
)

// Item is a normalized catalog record ready for JSON output.
//
// The set of implementations is closed: [Track], [Album], [Artist],
// [Playlist], [Episode] and [Unknown]. Every record carries a "type"
// tag so mixed collections stay self-describing after marshaling.
type Item interface {
	Kind() models.Kind
	item()
}

// Track is a normalized song record
type Track struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	DurationMS int      `json:"duration_ms"`
}

func (Track) Kind() models.Kind { return models.KindTrack }
func (Track) item()             {}

// Album is a normalized album record
type Album struct {
	Type        string   `json:"type"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	ReleaseDate string   `json:"release_date"`
}

func (Album) Kind() models.Kind { return models.KindAlbum }
func (Album) item()             {}

// Artist is a normalized artist record
type Artist struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Followers  int      `json:"followers"`
	Popularity int      `json:"popularity"`
}

func (Artist) Kind() models.Kind { return models.KindArtist }
func (Artist) item()             {}

// Playlist is a normalized playlist record
type Playlist struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tracks int    `json:"tracks"`
	Owner  string `json:"owner"`
	URL    string `json:"url"`
}

func (Playlist) Kind() models.Kind { return models.KindPlaylist }
func (Playlist) item()             {}

// Episode is a normalized podcast episode record
type Episode struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Show       string `json:"show"`
	DurationMS int    `json:"duration_ms"`
}

func (Episode) Kind() models.Kind { return models.KindEpisode }
func (Episode) item()             {}

// Unknown carries whatever could be identified from an item that failed to
// decode or named a type outside the union
type Unknown struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (Unknown) Kind() models.Kind { return models.KindUnknown }
func (Unknown) item()             {}

// probe pulls the fields every Spotify object shares before full decoding
type probe struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// namedRef is a nested object referenced only by its name (artist, album, show)
type namedRef struct {
	Name string `json:"name"`
}

func names(refs []namedRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.Name)
	}
	return out
}

func fallback(p probe) Unknown {
	return Unknown{Type: string(models.KindUnknown), ID: p.ID, Name: p.Name}
}

// Normalize maps one raw API item onto its typed record.
//
// It never fails: items that are null, malformed, missing their "type" tag
// or shaped inconsistently with their declared type all degrade to [Unknown]
// carrying whatever identifying fields could still be read.
func Normalize(raw json.RawMessage) Item {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return Unknown{Type: string(models.KindUnknown)}
	}

	switch models.Kind(p.Type) {
	case models.KindTrack:
		var body struct {
			Album      namedRef   `json:"album"`
			Artists    []namedRef `json:"artists"`
			DurationMS int        `json:"duration_ms"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return fallback(p)
		}
		return Track{
			Type:       string(models.KindTrack),
			ID:         p.ID,
			Name:       p.Name,
			Artists:    names(body.Artists),
			Album:      body.Album.Name,
			DurationMS: body.DurationMS,
		}
	case models.KindAlbum:
		var body struct {
			Artists     []namedRef `json:"artists"`
			ReleaseDate string     `json:"release_date"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return fallback(p)
		}
		return Album{
			Type:        string(models.KindAlbum),
			ID:          p.ID,
			Name:        p.Name,
			Artists:     names(body.Artists),
			ReleaseDate: body.ReleaseDate,
		}
	case models.KindArtist:
		var body struct {
			Genres    []string `json:"genres"`
			Followers struct {
				Total int `json:"total"`
			} `json:"followers"`
			Popularity int `json:"popularity"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return fallback(p)
		}
		if body.Genres == nil {
			body.Genres = []string{}
		}
		return Artist{
			Type:       string(models.KindArtist),
			ID:         p.ID,
			Name:       p.Name,
			Genres:     body.Genres,
			Followers:  body.Followers.Total,
			Popularity: body.Popularity,
		}
	case models.KindPlaylist:
		var body struct {
			Owner struct {
				DisplayName string `json:"display_name"`
			} `json:"owner"`
			Tracks struct {
				Total int `json:"total"`
			} `json:"tracks"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return fallback(p)
		}
		owner := body.Owner.DisplayName
		if owner == "" {
			owner = "unknown"
		}
		return Playlist{
			Type:   string(models.KindPlaylist),
			ID:     p.ID,
			Name:   p.Name,
			Tracks: body.Tracks.Total,
			Owner:  owner,
			URL:    body.ExternalURLs.Spotify,
		}
	case models.KindEpisode:
		var body struct {
			Show       namedRef `json:"show"`
			DurationMS int      `json:"duration_ms"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return fallback(p)
		}
		return Episode{
			Type:       string(models.KindEpisode),
			ID:         p.ID,
			Name:       p.Name,
			Show:       body.Show.Name,
			DurationMS: body.DurationMS,
		}
	default:
		return fallback(p)
	}
}

// NormalizeAll maps every raw item in input order. The result is never nil.
func NormalizeAll(raw []json.RawMessage) []Item {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, Normalize(r))
	}
	return items
}
