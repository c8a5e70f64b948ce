package catalog

import (
	"context"

	"github.com/core-ts/video/model"
	"github.com/core-ts/video/normalize"
)

// CommentOrder sorts comment threads.
type CommentOrder string

const (
	CommentOrderTime      CommentOrder = "time"
	CommentOrderRelevance CommentOrder = "relevance"
)

// DefaultCommentMax is the page size of the comment operations.
const DefaultCommentMax = 20

type ytAuthorChannel struct {
	Value string `json:"value"`
}

type ytCommentSnippet struct {
	VideoID               string           `json:"videoId"`
	ParentID              string           `json:"parentId"`
	TextDisplay           string           `json:"textDisplay"`
	TextOriginal          string           `json:"textOriginal"`
	AuthorDisplayName     string           `json:"authorDisplayName"`
	AuthorProfileImageURL string           `json:"authorProfileImageUrl"`
	AuthorChannelURL      string           `json:"authorChannelUrl"`
	AuthorChannelID       ytAuthorChannel  `json:"authorChannelId"`
	CanRate               bool             `json:"canRate"`
	ViewerRating          string           `json:"viewerRating"`
	LikeCount             int64            `json:"likeCount"`
	PublishedAt           *model.Timestamp `json:"publishedAt"`
	UpdatedAt             *model.Timestamp `json:"updatedAt"`
}

type ytComment struct {
	ID      string           `json:"id"`
	Snippet ytCommentSnippet `json:"snippet"`
}

type ytCommentThread struct {
	ID      string `json:"id"`
	Snippet struct {
		VideoID         string    `json:"videoId"`
		TopLevelComment ytComment `json:"topLevelComment"`
		CanReply        bool      `json:"canReply"`
		TotalReplyCount int64     `json:"totalReplyCount"`
		IsPublic        bool      `json:"isPublic"`
	} `json:"snippet"`
}

type ytPage[T any] struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []T    `json:"items"`
}

func (c ytComment) model() model.Comment {
	s := c.Snippet
	s.UpdatedAt.Coerce()
	return model.Comment{
		ID:                    c.ID,
		ParentID:              s.ParentID,
		TextDisplay:           s.TextDisplay,
		TextOriginal:          s.TextOriginal,
		AuthorDisplayName:     s.AuthorDisplayName,
		AuthorProfileImageURL: s.AuthorProfileImageURL,
		AuthorChannelURL:      s.AuthorChannelURL,
		AuthorChannelID:       s.AuthorChannelID.Value,
		CanRate:               s.CanRate,
		ViewerRating:          s.ViewerRating,
		LikeCount:             s.LikeCount,
		PublishedAt:           s.PublishedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func (t ytCommentThread) model() model.CommentThread {
	top := t.Snippet.TopLevelComment.model()
	videoID := t.Snippet.VideoID
	if videoID == "" {
		videoID = t.Snippet.TopLevelComment.Snippet.VideoID
	}
	return model.CommentThread{
		ID:                    t.ID,
		VideoID:               videoID,
		TextDisplay:           top.TextDisplay,
		TextOriginal:          top.TextOriginal,
		AuthorDisplayName:     top.AuthorDisplayName,
		AuthorProfileImageURL: top.AuthorProfileImageURL,
		AuthorChannelURL:      top.AuthorChannelURL,
		AuthorChannelID:       top.AuthorChannelID,
		CanRate:               top.CanRate,
		ViewerRating:          top.ViewerRating,
		LikeCount:             top.LikeCount,
		PublishedAt:           top.PublishedAt,
		UpdatedAt:             top.UpdatedAt,
		CanReply:              t.Snippet.CanReply,
		TotalReplyCount:       t.Snippet.TotalReplyCount,
		IsPublic:              t.Snippet.IsPublic,
	}
}

func (c *ExtendedClient) commentQuery(opts ListOptions) *query {
	return newQuery().
		set("key", c.apiKey).
		set("part", "snippet").
		setInt("maxResults", opts.limit(DefaultCommentMax)).
		set("pageToken", opts.PageToken)
}

// GetCommentThreads lists the top level comments of a video. An empty
// video id yields an empty page without a request.
func (c *ExtendedClient) GetCommentThreads(ctx context.Context, videoID string, order CommentOrder, opts ListOptions) (*model.ListResult[model.CommentThread], error) {
	if videoID == "" {
		return emptyList[model.CommentThread](), nil
	}
	q := c.commentQuery(opts).set("videoId", videoID)
	switch order {
	case CommentOrderTime, CommentOrderRelevance:
		q.set("order", string(order))
	}
	var p ytPage[ytCommentThread]
	if err := c.get(ctx, withQuery(joinURL(c.youtubeURL, "commentThreads"), q), &p); err != nil {
		return nil, err
	}
	list := make([]model.CommentThread, len(p.Items))
	for i, t := range p.Items {
		list[i] = t.model()
	}
	return &model.ListResult[model.CommentThread]{
		List:          normalize.CoerceTimestamps[model.CommentThread](list),
		NextPageToken: p.NextPageToken,
	}, nil
}

// GetComments lists the replies to a comment. An empty parent id yields an
// empty page without a request.
func (c *ExtendedClient) GetComments(ctx context.Context, parentID string, opts ListOptions) (*model.ListResult[model.Comment], error) {
	if parentID == "" {
		return emptyList[model.Comment](), nil
	}
	q := c.commentQuery(opts).set("parentId", parentID)
	var p ytPage[ytComment]
	if err := c.get(ctx, withQuery(joinURL(c.youtubeURL, "comments"), q), &p); err != nil {
		return nil, err
	}
	list := make([]model.Comment, len(p.Items))
	for i, cm := range p.Items {
		list[i] = cm.model()
	}
	return &model.ListResult[model.Comment]{
		List:          normalize.CoerceTimestamps[model.Comment](list),
		NextPageToken: p.NextPageToken,
	}, nil
}
