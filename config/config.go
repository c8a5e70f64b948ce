// Package config loads the settings of the catalog command line tools from
// flags, CATALOG_* environment variables and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/core-ts/video/catalog"
	"github.com/core-ts/video/transport"
	"github.com/core-ts/video/transport/fastclient"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CATALOG_BASE_URL.
const EnvPrefix = "CATALOG"

// Keys, as used for flags and (upper-cased, '-' -> '_') environment variables.
const (
	KeyBaseURL           = "base-url"
	KeyAPIKey            = "api-key"
	KeyYouTubeURL        = "youtube-url"
	KeyChannelCacheSize  = "channel-cache-size"
	KeyPlaylistCacheSize = "playlist-cache-size"
	KeyTimeout           = "timeout"
	KeyTransport         = "transport"
	KeyCoalesce          = "coalesce"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
	KeyMetricsAddr       = "metrics-addr"
)

const (
	TransportHTTP     = "http"
	TransportFastHTTP = "fasthttp"
)

// Config is the resolved tool configuration.
type Config struct {
	BaseURL           string
	APIKey            string
	YouTubeURL        string
	ChannelCacheSize  int
	PlaylistCacheSize int
	Timeout           time.Duration
	Transport         string
	Coalesce          bool
	LogLevel          string
	LogFormat         string
	MetricsAddr       string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyYouTubeURL, catalog.DefaultYouTubeURL)
	v.SetDefault(KeyChannelCacheSize, catalog.DefaultChannelCacheSize)
	v.SetDefault(KeyPlaylistCacheSize, catalog.DefaultPlaylistCacheSize)
	v.SetDefault(KeyTimeout, transport.DefaultTimeout)
	v.SetDefault(KeyTransport, TransportHTTP)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are skipped; variables already set are kept.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// Load resolves the configuration from v, which may have flags bound to it,
// and the CATALOG_* environment, then validates it.
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	c := &Config{
		BaseURL:           strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		APIKey:            v.GetString(KeyAPIKey),
		YouTubeURL:        v.GetString(KeyYouTubeURL),
		ChannelCacheSize:  v.GetInt(KeyChannelCacheSize),
		PlaylistCacheSize: v.GetInt(KeyPlaylistCacheSize),
		Timeout:           v.GetDuration(KeyTimeout),
		Transport:         strings.ToLower(v.GetString(KeyTransport)),
		Coalesce:          v.GetBool(KeyCoalesce),
		LogLevel:          strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:         strings.ToLower(v.GetString(KeyLogFormat)),
		MetricsAddr:       v.GetString(KeyMetricsAddr),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.YouTubeURL, validation.Required, is.URL),
		validation.Field(&c.ChannelCacheSize, validation.Required, validation.Min(1)),
		validation.Field(&c.PlaylistCacheSize, validation.Required, validation.Min(1)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Transport, validation.In(TransportHTTP, TransportFastHTTP)),
		validation.Field(&c.LogLevel, validation.By(validLevel)),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func validLevel(v any) error {
	s, _ := v.(string)
	if _, err := logrus.ParseLevel(s); err != nil {
		return errors.New("must be a log level")
	}
	return nil
}

// Logger builds the logger described by c.
func (c *Config) Logger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Getter builds the configured transport. opts apply to the net/http
// transport only.
func (c *Config) Getter(opts ...transport.HTTPOption) transport.Getter {
	if c.Transport == TransportFastHTTP {
		g := fastclient.New()
		g.Timeout = c.Timeout
		return g
	}
	return transport.NewHTTP(append(opts, transport.WithTimeout(c.Timeout))...)
}

// CatalogOptions translates c into client options.
func (c *Config) CatalogOptions() []catalog.Option {
	opts := []catalog.Option{
		catalog.WithChannelCacheSize(c.ChannelCacheSize),
		catalog.WithPlaylistCacheSize(c.PlaylistCacheSize),
		catalog.WithYouTubeURL(c.YouTubeURL),
	}
	if c.APIKey != "" {
		opts = append(opts, catalog.WithAPIKey(c.APIKey))
	}
	if c.Coalesce {
		opts = append(opts, catalog.WithCoalescing())
	}
	return opts
}
