package catalog

import (
	"context"
	"strings"

	"github.com/core-ts/video/model"
	"github.com/core-ts/video/normalize"
)

// Wire shapes of the upstream data API.

type ytThumbnail struct {
	URL string `json:"url"`
}

type ytThumbnails struct {
	Default  *ytThumbnail `json:"default,omitempty"`
	Medium   *ytThumbnail `json:"medium,omitempty"`
	High     *ytThumbnail `json:"high,omitempty"`
	Standard *ytThumbnail `json:"standard,omitempty"`
	Maxres   *ytThumbnail `json:"maxres,omitempty"`
}

type ytSearchResponse struct {
	NextPageToken string         `json:"nextPageToken"`
	Items         []ytSearchItem `json:"items"`
}

type ytSearchItem struct {
	ID struct {
		Kind       string `json:"kind"`
		VideoID    string `json:"videoId"`
		ChannelID  string `json:"channelId"`
		PlaylistID string `json:"playlistId"`
	} `json:"id"`
	Snippet struct {
		PublishedAt          *model.Timestamp `json:"publishedAt"`
		ChannelID            string           `json:"channelId"`
		Title                string           `json:"title"`
		Description          string           `json:"description"`
		Thumbnails           ytThumbnails     `json:"thumbnails"`
		ChannelTitle         string           `json:"channelTitle"`
		LiveBroadcastContent string           `json:"liveBroadcastContent"`
	} `json:"snippet"`
}

const thumbnailBase = "https://i.ytimg.com/vi/"

// videoThumbnails derives the thumbnail URLs of a video from its id.
func videoThumbnails(id string) model.Thumbnails {
	p := thumbnailBase + id + "/"
	return model.Thumbnails{
		Thumbnail:         p + "default.jpg",
		MediumThumbnail:   p + "mqdefault.jpg",
		HighThumbnail:     p + "hqdefault.jpg",
		StandardThumbnail: p + "sddefault.jpg",
		MaxresThumbnail:   p + "maxresdefault.jpg",
	}
}

func (t ytThumbnails) model() model.Thumbnails {
	url := func(x *ytThumbnail) string {
		if x == nil {
			return ""
		}
		return x.URL
	}
	return model.Thumbnails{
		Thumbnail:         url(t.Default),
		MediumThumbnail:   url(t.Medium),
		HighThumbnail:     url(t.High),
		StandardThumbnail: url(t.Standard),
		MaxresThumbnail:   url(t.Maxres),
	}
}

// fromYouTubeSearch converts a data API search page into items.
func fromYouTubeSearch(r ytSearchResponse) *model.ListResult[model.Item] {
	list := make([]model.Item, 0, len(r.Items))
	for _, it := range r.Items {
		kind := it.ID.Kind
		if i := strings.LastIndexByte(kind, '#'); i >= 0 {
			kind = kind[i+1:]
		}
		item := model.Item{
			Kind:                 kind,
			Title:                it.Snippet.Title,
			Description:          it.Snippet.Description,
			ChannelID:            it.Snippet.ChannelID,
			ChannelTitle:         it.Snippet.ChannelTitle,
			LiveBroadcastContent: it.Snippet.LiveBroadcastContent,
			PublishedAt:          it.Snippet.PublishedAt,
		}
		switch kind {
		case string(model.ItemTypeVideo):
			item.ID = it.ID.VideoID
			item.Thumbnails = videoThumbnails(item.ID)
		case string(model.ItemTypePlaylist):
			item.ID = it.ID.PlaylistID
			item.Thumbnails = it.Snippet.Thumbnails.model()
		default:
			item.ID = it.ID.ChannelID
			item.Thumbnails = it.Snippet.Thumbnails.model()
		}
		list = append(list, item)
	}
	return &model.ListResult[model.Item]{
		List:          normalize.CoerceTimestamps[model.Item](list),
		NextPageToken: r.NextPageToken,
	}
}

// Search queries the upstream data API directly for videos, playlists and
// channels. It needs an API key and fails with ErrAPIKeyRequired, without a
// request, otherwise.
func (c *Client) Search(ctx context.Context, f model.ItemFilter, opts ListOptions) (*model.ListResult[model.Item], error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	q := newQuery().
		set("key", c.apiKey).
		set("part", "snippet").
		setInt("maxResults", opts.limit(DefaultMax)).
		set("pageToken", opts.PageToken).
		itemFilter(f).
		set("order", f.Sort.Order())
	if f.Type.Valid() {
		q.set("type", string(f.Type))
	}
	var r ytSearchResponse
	if err := c.get(ctx, withQuery(joinURL(c.youtubeURL, "search"), q), &r); err != nil {
		return nil, err
	}
	return fromYouTubeSearch(r), nil
}
