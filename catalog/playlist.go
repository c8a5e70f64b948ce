package catalog

import (
	"context"
	"net/url"

	"github.com/core-ts/video/model"
)

// GetPlaylists fetches playlists by id in one request, uncached.
func (c *Client) GetPlaylists(ctx context.Context, ids []string, fields ...string) ([]model.Playlist, error) {
	return getBatch[model.Playlist](ctx, c, "playlists", ids, fields)
}

// GetPlaylist returns the playlist with id, or nil when it does not exist.
// Found playlists are cached like channels.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*model.Playlist, error) {
	return c.playlists.get(ctx, c, id, joinURL(c.baseURL, "playlists", url.PathEscape(id)))
}

// GetPlaylistVideos lists the videos of a playlist; each video carries the
// playlist id.
func (c *Client) GetPlaylistVideos(ctx context.Context, playlistID string, opts ListOptions) (*model.ListResult[model.Video], error) {
	q := newQuery().set("playlistId", playlistID).page(opts)
	return getContainedVideos(ctx, c, withQuery(joinURL(c.baseURL, "videos"), q), func(v *model.Video, id string) {
		v.PlaylistID = id
	})
}

// SearchPlaylists searches the catalog's own playlist index.
func (c *Client) SearchPlaylists(ctx context.Context, f model.PlaylistFilter, opts ListOptions) (*model.ListResult[model.Playlist], error) {
	q := newQuery().playlistFilter(f).page(opts)
	return getList[model.Playlist](ctx, c, withQuery(joinURL(c.baseURL, "playlists", "search"), q))
}
