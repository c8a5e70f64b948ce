package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/core-ts/video/catalog"
	"github.com/core-ts/video/config"
	pmet "github.com/core-ts/video/metrics/prom"
	"github.com/core-ts/video/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by all subcommands, built once flags are parsed.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	log    *logrus.Logger
	reg    *prometheus.Registry
	svc    catalog.Service
	output string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Query a video catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.holdMetrics(cmd.Context())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.String(config.KeyBaseURL, "", "catalog service base URL")
	pf.String(config.KeyAPIKey, "", "upstream data API key; enables search and comments")
	pf.String(config.KeyYouTubeURL, catalog.DefaultYouTubeURL, "upstream data API base URL")
	pf.Int(config.KeyChannelCacheSize, catalog.DefaultChannelCacheSize, "channel cache capacity")
	pf.Int(config.KeyPlaylistCacheSize, catalog.DefaultPlaylistCacheSize, "playlist cache capacity")
	pf.Duration(config.KeyTimeout, transport.DefaultTimeout, "per request timeout")
	pf.String(config.KeyTransport, config.TransportHTTP, "transport: http | fasthttp")
	pf.Bool(config.KeyCoalesce, false, "share one request between concurrent cache misses")
	pf.String(config.KeyLogLevel, "info", "log level")
	pf.String(config.KeyLogFormat, "text", "log format: text | json")
	pf.String(config.KeyMetricsAddr, "", "serve Prometheus metrics at addr after the command and wait for a signal")
	pf.StringVarP(&a.output, "output", "o", "json", "output: json | text")
	_ = a.v.BindPFlags(pf)

	root.AddCommand(
		categoriesCmd(a),
		channelCmd(a), channelsCmd(a), channelPlaylistsCmd(a), channelVideosCmd(a),
		playlistCmd(a), playlistsCmd(a), playlistVideosCmd(a),
		popularCmd(a), videoCmd(a), videosCmd(a), relatedCmd(a),
		searchCmd(a), searchVideosCmd(a), searchPlaylistsCmd(a), searchChannelsCmd(a),
		commentsCmd(a), repliesCmd(a),
	)
	return root
}

func (a *app) init() error {
	if err := config.LoadEnvFiles(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Logger()
	a.reg = prometheus.NewRegistry()

	var httpOpts []transport.HTTPOption
	if cfg.MetricsAddr != "" {
		httpOpts = append(httpOpts, transport.WithClient(instrumentedClient(a.reg)))
	}
	opts := append(cfg.CatalogOptions(),
		catalog.WithLogger(a.log),
		catalog.WithMetrics(
			pmet.New(a.reg, "catalog", "channel_cache", nil),
			pmet.New(a.reg, "catalog", "playlist_cache", nil),
		),
	)
	a.svc = catalog.New(cfg.BaseURL, cfg.Getter(httpOpts...), opts...)
	a.log.WithFields(logrus.Fields{
		"base_url":  cfg.BaseURL,
		"transport": cfg.Transport,
		"extended":  cfg.APIKey != "",
	}).Debug("client ready")
	return nil
}

// instrumentedClient counts and times upstream requests.
func instrumentedClient(reg prometheus.Registerer) *http.Client {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Upstream requests by status code",
	}, []string{"code"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Upstream request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"code"})
	reg.MustRegister(requests, latency)

	rt := promhttp.InstrumentRoundTripperCounter(requests,
		promhttp.InstrumentRoundTripperDuration(latency, http.DefaultTransport))
	return &http.Client{Transport: rt}
}

// holdMetrics serves the registry until SIGINT/SIGTERM when a metrics
// address is configured.
func (a *app) holdMetrics(ctx context.Context) error {
	if a.cfg == nil || a.cfg.MetricsAddr == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	a.log.WithField("addr", a.cfg.MetricsAddr).Info("serving metrics")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
