package catalog

import (
	"context"

	"github.com/core-ts/video/model"
	"github.com/core-ts/video/normalize"
	"github.com/sirupsen/logrus"
)

// getList fetches one page, expands a compacted list and coerces the
// publication times. The cursor is passed through as received.
func getList[T any, PT normalize.Timestamped[T]](ctx context.Context, c *Client, url string) (*model.ListResult[T], error) {
	var p normalize.Page
	if err := c.get(ctx, url, &p); err != nil {
		return nil, err
	}
	c.logPage(p)
	list, err := normalize.ExpandList[T](p.List)
	if err != nil {
		return nil, err
	}
	return &model.ListResult[T]{
		List:          normalize.CoerceTimestamps[T, PT](list),
		NextPageToken: p.NextPageToken,
	}, nil
}

// getContainedVideos is getList for listings whose elements carry the id
// of the playlist or channel they were listed from. attach copies that id
// onto the video.
func getContainedVideos(ctx context.Context, c *Client, url string, attach func(v *model.Video, containerID string)) (*model.ListResult[model.Video], error) {
	var p normalize.Page
	if err := c.get(ctx, url, &p); err != nil {
		return nil, err
	}
	c.logPage(p)
	elems, err := normalize.ExpandContained[model.Video](p.List)
	if err != nil {
		return nil, err
	}
	list := make([]model.Video, len(elems))
	for i, e := range elems {
		list[i] = e.Item
		if e.ContainerID != "" {
			attach(&list[i], e.ContainerID)
		}
	}
	return &model.ListResult[model.Video]{
		List:          normalize.CoerceTimestamps[model.Video](list),
		NextPageToken: p.NextPageToken,
	}, nil
}

// getBatch fetches entities by id. The response is a plain array and is
// neither expanded nor cached. No request is made for an empty id list.
func getBatch[T any, PT normalize.Timestamped[T]](ctx context.Context, c *Client, path string, ids, fields []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	q := newQuery().setList("id", ids).setList("fields", fields)
	var list []T
	if err := c.get(ctx, withQuery(joinURL(c.baseURL, path, "list"), q), &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return normalize.CoerceTimestamps[T, PT](list), nil
}

func (c *Client) logPage(p normalize.Page) {
	c.log.WithFields(logrus.Fields{"shape": p.List.Shape.String(), "rows": p.List.Len()}).Debug("page")
}

func emptyList[T any]() *model.ListResult[T] {
	return &model.ListResult[T]{List: []T{}}
}
