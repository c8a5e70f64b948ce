package catalog

import (
	"context"
	"net/url"

	"github.com/core-ts/video/model"
	"github.com/core-ts/video/normalize"
)

// GetCategories lists the video categories of a region, DefaultRegion when
// regionCode is empty.
func (c *Client) GetCategories(ctx context.Context, regionCode string) ([]model.Category, error) {
	if regionCode == "" {
		regionCode = DefaultRegion
	}
	q := newQuery().set("regionCode", regionCode)
	var p normalize.Page
	if err := c.get(ctx, withQuery(joinURL(c.baseURL, "category"), q), &p); err != nil {
		return nil, err
	}
	return normalize.ExpandList[model.Category](p.List)
}

// GetPopularVideos lists the most popular videos of a region and category.
// DefaultRegion applies only when both are empty.
func (c *Client) GetPopularVideos(ctx context.Context, regionCode, categoryID string, opts ListOptions) (*model.ListResult[model.Video], error) {
	if regionCode == "" && categoryID == "" {
		regionCode = DefaultRegion
	}
	q := newQuery().set("regionCode", regionCode).set("categoryId", categoryID).page(opts)
	return getList[model.Video](ctx, c, withQuery(joinURL(c.baseURL, "videos", "popular"), q))
}

// GetPopularVideosByRegion is GetPopularVideos without a category.
func (c *Client) GetPopularVideosByRegion(ctx context.Context, regionCode string, opts ListOptions) (*model.ListResult[model.Video], error) {
	return c.GetPopularVideos(ctx, regionCode, "", opts)
}

// GetPopularVideosByCategory is GetPopularVideos without a region.
func (c *Client) GetPopularVideosByCategory(ctx context.Context, categoryID string, opts ListOptions) (*model.ListResult[model.Video], error) {
	return c.GetPopularVideos(ctx, "", categoryID, opts)
}

// GetVideos fetches videos by id in one request, uncached.
func (c *Client) GetVideos(ctx context.Context, ids []string, fields ...string) ([]model.Video, error) {
	return getBatch[model.Video](ctx, c, "videos", ids, fields)
}

// GetVideo returns the video with id, or nil when it does not exist.
// Videos are never cached.
func (c *Client) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	u := joinURL(c.baseURL, "videos", url.PathEscape(id))
	return normalize.FetchOptional(ctx, func(ctx context.Context) (*model.Video, error) {
		var v model.Video
		if err := c.get(ctx, u, &v); err != nil {
			return nil, err
		}
		return &v, nil
	})
}

// GetRelatedVideos lists videos related to videoID. An empty id yields an
// empty page without a request.
func (c *Client) GetRelatedVideos(ctx context.Context, videoID string, opts ListOptions) (*model.ListResult[model.Video], error) {
	if videoID == "" {
		return emptyList[model.Video](), nil
	}
	q := newQuery().page(opts)
	return getList[model.Video](ctx, c, withQuery(joinURL(c.baseURL, "videos", url.PathEscape(videoID), "related"), q))
}

// SearchVideos searches the catalog's own video index. Unlike Search it
// needs no API key.
func (c *Client) SearchVideos(ctx context.Context, f model.ItemFilter, opts ListOptions) (*model.ListResult[model.Video], error) {
	q := newQuery().itemFilter(f).set("sort", sortValue(f.Sort)).page(opts)
	return getList[model.Video](ctx, c, withQuery(joinURL(c.baseURL, "videos", "search"), q))
}
