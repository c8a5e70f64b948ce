package model

import "slices"

// Thumbnails holds the image variants of an entity, smallest first.
type Thumbnails struct {
	Thumbnail         string `json:"thumbnail,omitempty"`
	MediumThumbnail   string `json:"mediumThumbnail,omitempty"`
	HighThumbnail     string `json:"highThumbnail,omitempty"`
	StandardThumbnail string `json:"standardThumbnail,omitempty"`
	MaxresThumbnail   string `json:"maxresThumbnail,omitempty"`
}

// Category is a video category available in a region.
type Category struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Assignable bool   `json:"assignable,omitempty"`
	ChannelID  string `json:"channelId,omitempty"`
}

// Channel is a content channel.
type Channel struct {
	ID          string     `json:"id"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	CustomURL   string     `json:"customUrl,omitempty"`
	Country     string     `json:"country,omitempty"`
	PublishedAt *Timestamp `json:"publishedAt,omitempty"`
	Thumbnails

	LocalizedTitle       string     `json:"localizedTitle,omitempty"`
	LocalizedDescription string     `json:"localizedDescription,omitempty"`
	Uploads              string     `json:"uploads,omitempty"`
	Favorites            string     `json:"favorites,omitempty"`
	Likes                string     `json:"likes,omitempty"`
	LastUpload           *Timestamp `json:"lastUpload,omitempty"`
	Count                int64      `json:"count,omitempty"`
	ItemCount            int64      `json:"itemCount,omitempty"`
	PlaylistCount        int64      `json:"playlistCount,omitempty"`
	PlaylistItemCount    int64      `json:"playlistItemCount,omitempty"`
	Channels             []string   `json:"channels,omitempty"`
}

func (c *Channel) Published() *Timestamp { return c.PublishedAt }

// Clone returns a deep copy of c.
func (c *Channel) Clone() *Channel {
	cp := *c
	cp.PublishedAt = c.PublishedAt.Clone()
	cp.LastUpload = c.LastUpload.Clone()
	cp.Channels = slices.Clone(c.Channels)
	return &cp
}

// Playlist is an ordered collection of videos owned by a channel.
type Playlist struct {
	ID           string     `json:"id"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	ChannelID    string     `json:"channelId,omitempty"`
	ChannelTitle string     `json:"channelTitle,omitempty"`
	PublishedAt  *Timestamp `json:"publishedAt,omitempty"`
	Thumbnails

	LocalizedTitle       string `json:"localizedTitle,omitempty"`
	LocalizedDescription string `json:"localizedDescription,omitempty"`
	Count                int64  `json:"count,omitempty"`
	ItemCount            int64  `json:"itemCount,omitempty"`
}

func (p *Playlist) Published() *Timestamp { return p.PublishedAt }

// Clone returns a deep copy of p.
func (p *Playlist) Clone() *Playlist {
	cp := *p
	cp.PublishedAt = p.PublishedAt.Clone()
	return &cp
}

// Video is a single video with its statistics.
type Video struct {
	ID           string     `json:"id"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	ChannelID    string     `json:"channelId,omitempty"`
	ChannelTitle string     `json:"channelTitle,omitempty"`
	PlaylistID   string     `json:"playlistId,omitempty"`
	PublishedAt  *Timestamp `json:"publishedAt,omitempty"`
	Thumbnails

	CategoryID           string   `json:"categoryId,omitempty"`
	Tags                 []string `json:"tags,omitempty"`
	LocalizedTitle       string   `json:"localizedTitle,omitempty"`
	LocalizedDescription string   `json:"localizedDescription,omitempty"`
	DefaultLanguage      string   `json:"defaultLanguage,omitempty"`
	DefaultAudioLanguage string   `json:"defaultAudioLanguage,omitempty"`

	// Duration in seconds.
	Duration        int64  `json:"duration,omitempty"`
	Dimension       string `json:"dimension,omitempty"`
	Definition      int    `json:"definition,omitempty"`
	Caption         bool   `json:"caption,omitempty"`
	LicensedContent bool   `json:"licensedContent,omitempty"`
	Projection      string `json:"projection,omitempty"`

	ViewCount    int64 `json:"viewCount,omitempty"`
	LikeCount    int64 `json:"likeCount,omitempty"`
	DislikeCount int64 `json:"dislikeCount,omitempty"`
	CommentCount int64 `json:"commentCount,omitempty"`

	BlockedRegions []string `json:"blockedRegions,omitempty"`
	AllowedRegions []string `json:"allowedRegions,omitempty"`
}

func (v *Video) Published() *Timestamp { return v.PublishedAt }

// Item is a generic search hit: a video, playlist or channel.
type Item struct {
	Kind                 string     `json:"kind,omitempty"`
	ID                   string     `json:"id"`
	Title                string     `json:"title,omitempty"`
	Description          string     `json:"description,omitempty"`
	ChannelID            string     `json:"channelId,omitempty"`
	ChannelTitle         string     `json:"channelTitle,omitempty"`
	LiveBroadcastContent string     `json:"liveBroadcastContent,omitempty"`
	PublishedAt          *Timestamp `json:"publishedAt,omitempty"`
	Thumbnails
}

func (i *Item) Published() *Timestamp { return i.PublishedAt }

// CommentThread is a top level comment on a video with its reply count.
type CommentThread struct {
	ID                    string     `json:"id"`
	VideoID               string     `json:"videoId,omitempty"`
	TextDisplay           string     `json:"textDisplay,omitempty"`
	TextOriginal          string     `json:"textOriginal,omitempty"`
	AuthorDisplayName     string     `json:"authorDisplayName,omitempty"`
	AuthorProfileImageURL string     `json:"authorProfileImageUrl,omitempty"`
	AuthorChannelURL      string     `json:"authorChannelUrl,omitempty"`
	AuthorChannelID       string     `json:"authorChannelId,omitempty"`
	CanRate               bool       `json:"canRate,omitempty"`
	ViewerRating          string     `json:"viewerRating,omitempty"`
	LikeCount             int64      `json:"likeCount,omitempty"`
	PublishedAt           *Timestamp `json:"publishedAt,omitempty"`
	UpdatedAt             *Timestamp `json:"updatedAt,omitempty"`
	CanReply              bool       `json:"canReply,omitempty"`
	TotalReplyCount       int64      `json:"totalReplyCount,omitempty"`
	IsPublic              bool       `json:"isPublic,omitempty"`
}

func (c *CommentThread) Published() *Timestamp { return c.PublishedAt }

// Comment is a reply inside a comment thread.
type Comment struct {
	ID                    string     `json:"id"`
	ParentID              string     `json:"parentId,omitempty"`
	TextDisplay           string     `json:"textDisplay,omitempty"`
	TextOriginal          string     `json:"textOriginal,omitempty"`
	AuthorDisplayName     string     `json:"authorDisplayName,omitempty"`
	AuthorProfileImageURL string     `json:"authorProfileImageUrl,omitempty"`
	AuthorChannelURL      string     `json:"authorChannelUrl,omitempty"`
	AuthorChannelID       string     `json:"authorChannelId,omitempty"`
	CanRate               bool       `json:"canRate,omitempty"`
	ViewerRating          string     `json:"viewerRating,omitempty"`
	LikeCount             int64      `json:"likeCount,omitempty"`
	PublishedAt           *Timestamp `json:"publishedAt,omitempty"`
	UpdatedAt             *Timestamp `json:"updatedAt,omitempty"`
}

func (c *Comment) Published() *Timestamp { return c.PublishedAt }
