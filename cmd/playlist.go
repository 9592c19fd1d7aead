package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"spores/internal/formatter"
	"spores/internal/models"
	"spores/internal/shared"
	"spores/internal/spotify"
)

// PlaylistList prints every playlist the current user owns or follows,
// walking all pages.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureClient(cmd); err != nil {
		return err
	}

	r.logger.Info("listing playlists")

	playlists, err := spotify.Drain(ctx, spotify.DefaultPageSize, r.client.MyPlaylists)
	if err != nil {
		return err
	}

	rows := make([]map[string]any, 0, len(playlists))
	for _, p := range playlists {
		rows = append(rows, map[string]any{
			"id":     p.ID,
			"name":   p.Name,
			"tracks": p.Tracks.Total,
			"public": p.Public,
			"owner":  ownerName(p.Owner),
			"url":    p.ExternalURLs.Spotify,
		})
	}

	return r.writeJSON(map[string]any{
		"total":     len(rows),
		"playlists": rows,
	}, cmd.Bool("pretty"))
}

// PlaylistCreate creates an empty playlist owned by the current user.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	if err := r.ensureClient(cmd); err != nil {
		return err
	}

	user, err := r.client.Me(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("creating playlist %q for %s", name, user.ID)

	playlist, err := r.client.CreatePlaylist(ctx, user.ID, name, cmd.Bool("public"), cmd.String("description"))
	if err != nil {
		return err
	}

	return r.writeJSON(map[string]any{
		"id":          playlist.ID,
		"name":        playlist.Name,
		"public":      playlist.Public,
		"description": playlist.Description,
		"url":         playlist.ExternalURLs.Spotify,
	}, cmd.Bool("pretty"))
}

// PlaylistInfo prints playlist metadata along with the complete, drained
// track listing. Entries whose track was removed from the catalog are
// skipped.
func (r *Runner) PlaylistInfo(ctx context.Context, cmd *cli.Command) error {
	ref, err := models.Resolve(models.KindPlaylist, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	if ref.ID == "" {
		return fmt.Errorf("%w: playlist ID or URI", shared.ErrMissingArgument)
	}

	if err := r.ensureClient(cmd); err != nil {
		return err
	}

	playlist, err := r.client.Playlist(ctx, ref.ID)
	if err != nil {
		return err
	}

	entries, err := spotify.Drain(ctx, spotify.DefaultPageSize,
		func(ctx context.Context, limit, offset int) (*spotify.Paging[spotify.PlaylistEntry], error) {
			return r.client.PlaylistTracks(ctx, ref.ID, limit, offset)
		})
	if err != nil {
		return err
	}

	tracks := make([]formatter.Item, 0, len(entries))
	for _, entry := range entries {
		if !entry.HasTrack() {
			continue
		}
		tracks = append(tracks, formatter.Normalize(entry.Track))
	}

	return r.writeJSON(map[string]any{
		"id":            playlist.ID,
		"name":          playlist.Name,
		"owner":         ownerName(playlist.Owner),
		"public":        playlist.Public,
		"collaborative": playlist.Collaborative,
		"followers":     playlist.Followers.Total,
		"description":   playlist.Description,
		"url":           playlist.ExternalURLs.Spotify,
		"total_tracks":  playlist.Tracks.Total,
		"tracks":        tracks,
	}, cmd.Bool("pretty"))
}

// PlaylistAdd appends tracks to a playlist one request at a time so a
// failure reports exactly how far it got.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: playlist add <playlist> <track>...", shared.ErrMissingArgument)
	}

	playlistRef, err := models.Resolve(models.KindPlaylist, args[0])
	if err != nil {
		return err
	}

	// Resolve everything up front so a malformed URI fails before any
	// track is added.
	refs := make([]models.ResourceRef, 0, len(args)-1)
	for _, arg := range args[1:] {
		ref, err := models.Resolve(models.KindTrack, arg)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	if err := r.ensureClient(cmd); err != nil {
		return err
	}

	r.logger.Infof("adding %d tracks to %s", len(refs), playlistRef.ID)

	var snapshot string
	added := 0
	for _, ref := range refs {
		snap, err := r.client.AddTracks(ctx, playlistRef.ID, []string{ref.URI()})
		if err != nil {
			return fmt.Errorf("added %d of %d tracks: %w", added, len(refs), err)
		}
		snapshot = snap
		added++
	}

	return r.writeJSON(map[string]any{
		"playlist":    args[0],
		"added":       added,
		"snapshot_id": snapshot,
	}, cmd.Bool("pretty"))
}

func ownerName(owner spotify.Owner) string {
	if owner.DisplayName == "" {
		return "unknown"
	}
	return owner.DisplayName
}
