package catalog

import (
	"context"
	"errors"
	neturl "net/url"
	"time"

	"github.com/core-ts/video/cache"
	"github.com/core-ts/video/internal/singleflight"
	"github.com/core-ts/video/model"
	"github.com/core-ts/video/normalize"
	"github.com/core-ts/video/transport"
	"github.com/sirupsen/logrus"
)

// ErrAPIKeyRequired is returned by Search on a client built without an API key.
var ErrAPIKeyRequired = errors.New("catalog: API key required")

// Service is the catalog surface every client offers. It is implemented by
// *Client and *ExtendedClient only; use Comments to reach the operations
// available with an API key.
type Service interface {
	GetCategories(ctx context.Context, regionCode string) ([]model.Category, error)

	GetChannels(ctx context.Context, ids []string, fields ...string) ([]model.Channel, error)
	GetChannel(ctx context.Context, id string) (*model.Channel, error)
	GetChannelPlaylists(ctx context.Context, channelID string, opts ListOptions) (*model.ListResult[model.Playlist], error)
	GetChannelVideos(ctx context.Context, channelID string, opts ListOptions) (*model.ListResult[model.Video], error)

	GetPlaylists(ctx context.Context, ids []string, fields ...string) ([]model.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*model.Playlist, error)
	GetPlaylistVideos(ctx context.Context, playlistID string, opts ListOptions) (*model.ListResult[model.Video], error)

	GetPopularVideos(ctx context.Context, regionCode, categoryID string, opts ListOptions) (*model.ListResult[model.Video], error)
	GetPopularVideosByRegion(ctx context.Context, regionCode string, opts ListOptions) (*model.ListResult[model.Video], error)
	GetPopularVideosByCategory(ctx context.Context, categoryID string, opts ListOptions) (*model.ListResult[model.Video], error)
	GetVideos(ctx context.Context, ids []string, fields ...string) ([]model.Video, error)
	GetVideo(ctx context.Context, id string) (*model.Video, error)
	GetRelatedVideos(ctx context.Context, videoID string, opts ListOptions) (*model.ListResult[model.Video], error)

	Search(ctx context.Context, f model.ItemFilter, opts ListOptions) (*model.ListResult[model.Item], error)
	SearchVideos(ctx context.Context, f model.ItemFilter, opts ListOptions) (*model.ListResult[model.Video], error)
	SearchPlaylists(ctx context.Context, f model.PlaylistFilter, opts ListOptions) (*model.ListResult[model.Playlist], error)
	SearchChannels(ctx context.Context, f model.ChannelFilter, opts ListOptions) (*model.ListResult[model.Channel], error)

	// Stats reports the resident size of the entity caches.
	Stats() Stats

	base() *Client
}

// CommentService lists video comments. Only clients built with an API key
// implement it.
type CommentService interface {
	GetCommentThreads(ctx context.Context, videoID string, order CommentOrder, opts ListOptions) (*model.ListResult[model.CommentThread], error)
	GetComments(ctx context.Context, parentID string, opts ListOptions) (*model.ListResult[model.Comment], error)
}

// Stats is a snapshot of the entity caches.
type Stats struct {
	Channels  int
	Playlists int
}

// Client talks to the catalog service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	youtubeURL string
	apiKey     string
	transport  transport.Getter
	log        logrus.FieldLogger

	channels  *entityCache[model.Channel, *model.Channel]
	playlists *entityCache[model.Playlist, *model.Playlist]
}

// ExtendedClient is a Client with the comment operations enabled.
type ExtendedClient struct {
	*Client
}

var (
	_ Service        = (*Client)(nil)
	_ Service        = (*ExtendedClient)(nil)
	_ CommentService = (*ExtendedClient)(nil)
)

// New builds a client for the catalog at baseURL. Without an API key the
// result is a *Client; with one it is an *ExtendedClient.
func New(baseURL string, t transport.Getter, opts ...Option) Service {
	c := newClient(baseURL, t, opts...)
	if c.apiKey == "" {
		return c
	}
	return &ExtendedClient{Client: c}
}

// Comments returns the comment operations of s when it was built with an
// API key.
func Comments(s Service) (CommentService, bool) {
	cs, ok := s.(CommentService)
	return cs, ok
}

func newClient(baseURL string, t transport.Getter, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Client{
		baseURL:    baseURL,
		youtubeURL: o.youtubeURL,
		apiKey:     o.apiKey,
		transport:  t,
		log:        o.logger.WithField("component", "catalog"),
	}
	c.channels = newEntityCache[model.Channel]("channel", o.channelCacheSize, o.channelMetrics, o.clock, o.coalesce, c.log)
	c.playlists = newEntityCache[model.Playlist]("playlist", o.playlistCacheSize, o.playlistMetrics, o.clock, o.coalesce, c.log)
	return c
}

func (c *Client) base() *Client { return c }

func (c *Client) Stats() Stats {
	return Stats{Channels: c.channels.store.Len(), Playlists: c.playlists.store.Len()}
}

// get issues one request. Failures are returned unchanged.
func (c *Client) get(ctx context.Context, url string, out any) error {
	start := time.Now()
	err := c.transport.Get(ctx, url, out)
	l := c.log.WithFields(logrus.Fields{"url": redact(url), "elapsed": time.Since(start)})
	if err != nil {
		var sc normalize.StatusCoder
		if errors.As(err, &sc) && sc.StatusCode() != 0 {
			l = l.WithField("status", sc.StatusCode())
		}
		l.Debug("fetch failed")
		return err
	}
	l.Debug("fetched")
	return nil
}

// redact hides the API key in logged URLs.
func redact(raw string) string {
	u, err := neturl.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("key") == "" {
		return raw
	}
	q.Set("key", "xxx")
	u.RawQuery = q.Encode()
	return u.String()
}

// ---- entity caches ----

// cacheable is an entity the caches can hold: it carries a publication
// time and can be deep-copied.
type cacheable[T any] interface {
	normalize.Timestamped[T]
	Clone() *T
}

// entityCache owns its entries. Values go in and come out as deep copies,
// so nothing a caller holds aliases a cached entry.
type entityCache[T any, PT cacheable[T]] struct {
	store cache.Cache[T]
	group *singleflight.Group[PT]
	log   logrus.FieldLogger
}

func newEntityCache[T any, PT cacheable[T]](kind string, size int, m cache.Metrics, clk cache.Clock, coalesce bool, log logrus.FieldLogger) *entityCache[T, PT] {
	log = log.WithField("cache", kind)
	e := &entityCache[T, PT]{log: log}
	e.store = cache.New[T](cache.Options[T]{
		Capacity: size,
		Metrics:  m,
		Clock:    clk,
		OnEvict: func(id string, _ T, reason cache.EvictReason) {
			if reason == cache.EvictCapacity {
				log.WithField("id", id).Debug("evicted")
			}
		},
	})
	if coalesce {
		e.group = &singleflight.Group[PT]{}
	}
	return e
}

// get returns the cached entity for id or fetches it from url. A found
// entity is stored; an absent one (not found or gone upstream) is not.
func (e *entityCache[T, PT]) get(ctx context.Context, c *Client, id, url string) (PT, error) {
	if v, ok := e.store.Get(id); ok {
		e.log.WithField("id", id).Debug("cache hit")
		return PT(&v).Clone(), nil
	}
	e.log.WithField("id", id).Debug("cache miss")

	fetch := func(ctx context.Context) (PT, error) {
		v, err := normalize.FetchOptional[T, PT](ctx, func(ctx context.Context) (PT, error) {
			var out T
			if err := c.get(ctx, url, &out); err != nil {
				return nil, err
			}
			return &out, nil
		})
		if err != nil || v == nil {
			return v, err
		}
		e.store.Set(id, *v.Clone())
		return v, nil
	}
	if e.group == nil {
		return fetch(ctx)
	}
	// The flight outlives any one caller; each caller's ctx only bounds
	// its own wait.
	v, shared, err := e.group.Do(ctx, id, func() (PT, error) {
		return fetch(context.WithoutCancel(ctx))
	})
	if !shared || v == nil {
		return v, err
	}
	return v.Clone(), err
}
