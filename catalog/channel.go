package catalog

import (
	"context"
	"net/url"

	"github.com/core-ts/video/model"
)

// GetChannels fetches channels by id in one request. The result is neither
// expanded nor cached; an empty id list returns an empty slice without a
// request.
func (c *Client) GetChannels(ctx context.Context, ids []string, fields ...string) ([]model.Channel, error) {
	return getBatch[model.Channel](ctx, c, "channels", ids, fields)
}

// GetChannel returns the channel with id, or nil when the catalog does not
// know it. Found channels are cached; a cached channel is returned without
// a request.
func (c *Client) GetChannel(ctx context.Context, id string) (*model.Channel, error) {
	return c.channels.get(ctx, c, id, joinURL(c.baseURL, "channels", url.PathEscape(id)))
}

// GetChannelPlaylists lists the playlists owned by a channel.
func (c *Client) GetChannelPlaylists(ctx context.Context, channelID string, opts ListOptions) (*model.ListResult[model.Playlist], error) {
	q := newQuery().set("channelId", channelID).page(opts)
	return getList[model.Playlist](ctx, c, withQuery(joinURL(c.baseURL, "playlists"), q))
}

// GetChannelVideos lists the uploads of a channel.
func (c *Client) GetChannelVideos(ctx context.Context, channelID string, opts ListOptions) (*model.ListResult[model.Video], error) {
	q := newQuery().set("channelId", channelID).page(opts)
	return getContainedVideos(ctx, c, withQuery(joinURL(c.baseURL, "videos"), q), func(v *model.Video, id string) {
		if v.ChannelID == "" {
			v.ChannelID = id
		}
	})
}

// SearchChannels searches the catalog's own channel index.
func (c *Client) SearchChannels(ctx context.Context, f model.ChannelFilter, opts ListOptions) (*model.ListResult[model.Channel], error) {
	q := newQuery().channelFilter(f).page(opts)
	return getList[model.Channel](ctx, c, withQuery(joinURL(c.baseURL, "channels", "search"), q))
}
