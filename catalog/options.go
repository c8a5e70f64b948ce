package catalog

import (
	"io"

	"github.com/core-ts/video/cache"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultChannelCacheSize bounds the channel cache when no size is given.
	DefaultChannelCacheSize = 40
	// DefaultPlaylistCacheSize bounds the playlist cache when no size is given.
	DefaultPlaylistCacheSize = 200
	// DefaultYouTubeURL is the base of the upstream data API used by Search
	// and the comment operations.
	DefaultYouTubeURL = "https://www.googleapis.com/youtube/v3"
)

type options struct {
	channelCacheSize  int
	playlistCacheSize int
	apiKey            string
	youtubeURL        string
	logger            logrus.FieldLogger
	channelMetrics    cache.Metrics
	playlistMetrics   cache.Metrics
	clock             cache.Clock
	coalesce          bool
}

// Option configures a client built by New.
type Option func(*options)

// WithChannelCacheSize bounds the channel cache. Non-positive values keep
// DefaultChannelCacheSize.
func WithChannelCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.channelCacheSize = n
		}
	}
}

// WithPlaylistCacheSize bounds the playlist cache. Non-positive values keep
// DefaultPlaylistCacheSize.
func WithPlaylistCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.playlistCacheSize = n
		}
	}
}

// WithAPIKey enables the generic search and the comment operations.
// New returns an *ExtendedClient when a non-empty key is supplied.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithYouTubeURL overrides DefaultYouTubeURL.
func WithYouTubeURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.youtubeURL = u
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics attaches observability hooks to the channel and playlist
// caches. Either may be nil.
func WithMetrics(channels, playlists cache.Metrics) Option {
	return func(o *options) {
		o.channelMetrics = channels
		o.playlistMetrics = playlists
	}
}

// WithClock overrides the time source used to stamp cache entries.
func WithClock(c cache.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithCoalescing makes concurrent cache misses for the same id share one
// upstream request. Without it every miss fetches on its own and the last
// insert wins.
func WithCoalescing() Option {
	return func(o *options) { o.coalesce = true }
}

func defaultOptions() options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return options{
		channelCacheSize:  DefaultChannelCacheSize,
		playlistCacheSize: DefaultPlaylistCacheSize,
		youtubeURL:        DefaultYouTubeURL,
		logger:            l,
	}
}
