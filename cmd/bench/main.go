// Command bench runs a synthetic workload against a catalog client backed by
// an in-process upstream and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/core-ts/video/catalog"
	pmet "github.com/core-ts/video/metrics/prom"
	"github.com/core-ts/video/normalize"
	"github.com/core-ts/video/transport"
	"github.com/core-ts/video/transport/fastclient"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	// ---- Flags ----
	var (
		channelCap  = flag.Int("channel_cache", catalog.DefaultChannelCacheSize, "channel cache capacity")
		playlistCap = flag.Int("playlist_cache", catalog.DefaultPlaylistCacheSize, "playlist cache capacity")
		coalesce    = flag.Bool("coalesce", false, "share requests between concurrent misses")
		fast        = flag.Bool("fasthttp", false, "use the fasthttp transport")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		latency  = flag.Duration("latency", 2*time.Millisecond, "simulated upstream latency")
		pageSize = flag.Int("page", 20, "videos per playlist page")

		keys  = flag.Int("keys", 1_000, "channel/playlist id space")
		zipfS = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	)
	flag.Parse()
	log := logrus.New()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Infof("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (default registry) ----
	chMetrics := pmet.New(nil, "catalog", "bench_channel_cache", nil)
	plMetrics := pmet.New(nil, "catalog", "bench_playlist_cache", nil)
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Infof("metrics: serving at %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, mux))
		}()
	}

	// ---- Upstream ----
	up := &upstream{latency: *latency, pageSize: *pageSize}
	srv := httptest.NewServer(up)
	defer srv.Close()

	var getter transport.Getter = transport.NewHTTP()
	if *fast {
		getter = fastclient.New()
	}
	opts := []catalog.Option{
		catalog.WithChannelCacheSize(*channelCap),
		catalog.WithPlaylistCacheSize(*playlistCap),
		catalog.WithMetrics(chMetrics, plMetrics),
	}
	if *coalesce {
		opts = append(opts, catalog.WithCoalescing())
	}
	svc := catalog.New(srv.URL, getter, opts...)

	// ---- Snapshot flags for goroutines ----
	keysN, keysMax := idSpace(*keys)
	seedBase := *seed
	workersN := max(*workers, 1)

	// ---- Load generation ----
	var lookups, lists, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			z := rand.NewZipf(r, *zipfS, *zipfV, keysMax)

			for gctx.Err() == nil {
				atomic.AddUint64(&total, 1)
				n := strconv.FormatUint(z.Uint64(), 10)
				var err error
				switch p := r.Intn(100); {
				case p < 70:
					atomic.AddUint64(&lookups, 1)
					_, err = svc.GetChannel(gctx, "UC"+n)
				case p < 90:
					atomic.AddUint64(&lookups, 1)
					_, err = svc.GetPlaylist(gctx, "PL"+n)
				default:
					atomic.AddUint64(&lists, 1)
					_, err = svc.GetPlaylistVideos(gctx, "PL"+n, catalog.ListOptions{})
				}
				if err != nil && gctx.Err() == nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("workload failed")
	}
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	lookupsN := atomic.LoadUint64(&lookups)
	entityFetches := atomic.LoadUint64(&up.entities)

	hitRate := 0.0
	if lookupsN > 0 && entityFetches <= lookupsN {
		hitRate = float64(lookupsN-entityFetches) / float64(lookupsN) * 100
	}
	stats := svc.Stats()

	fmt.Printf("channel_cache=%d playlist_cache=%d coalesce=%v fasthttp=%v workers=%d keys=%d dur=%v seed=%d\n",
		*channelCap, *playlistCap, *coalesce, *fast, workersN, keysN, elapsed, seedBase)
	fmt.Printf("ops=%s (%.0f ops/s)  lookups=%s  lists=%s\n",
		humanize.Comma(int64(ops)), float64(ops)/elapsed.Seconds(), humanize.Comma(int64(lookupsN)), humanize.Comma(int64(atomic.LoadUint64(&lists))))
	fmt.Printf("upstream entity fetches=%s  cache hit-rate=%.2f%%\n", humanize.Comma(int64(entityFetches)), hitRate)
	fmt.Printf("resident channels=%d playlists=%d\n", stats.Channels, stats.Playlists)
}

// idSpace clamps the -keys flag to at least one id and returns it with the
// largest Zipf draw.
func idSpace(keys int) (n int, imax uint64) {
	n = max(keys, 1)
	return n, uint64(n - 1)
}

// upstream is a minimal catalog service. Playlist pages are sent compacted.
type upstream struct {
	latency  time.Duration
	pageSize int
	entities uint64
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if u.latency > 0 {
		time.Sleep(u.latency)
	}
	w.Header().Set("Content-Type", "application/json")
	path := strings.Trim(r.URL.Path, "/")

	switch {
	case strings.HasPrefix(path, "channels/"):
		atomic.AddUint64(&u.entities, 1)
		id := strings.TrimPrefix(path, "channels/")
		writeJSON(w, map[string]any{"id": id, "title": "channel " + id, "publishedAt": "2015-01-01T00:00:00Z"})
	case strings.HasPrefix(path, "playlists/"):
		atomic.AddUint64(&u.entities, 1)
		id := strings.TrimPrefix(path, "playlists/")
		writeJSON(w, map[string]any{"id": id, "title": "playlist " + id, "channelId": "UC" + strings.TrimPrefix(id, "PL")})
	case path == "videos":
		u.servePage(w, r.URL.Query().Get("playlistId"))
	default:
		http.NotFound(w, r)
	}
}

func (u *upstream) servePage(w http.ResponseWriter, playlistID string) {
	elems := make([]json.RawMessage, u.pageSize)
	for i := range elems {
		b, _ := json.Marshal(map[string]any{
			"containerId": playlistID,
			"item": map[string]any{
				"id":          fmt.Sprintf("%s-v%d", playlistID, i),
				"channelId":   "UC" + strings.TrimPrefix(playlistID, "PL"),
				"publishedAt": "2020-05-01T10:00:00Z",
			},
		})
		elems[i] = b
	}
	c, err := normalize.CompactContained(elems)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, normalize.Page{
		List:          normalize.WireList{Shape: normalize.Compacted, Compact: &c},
		NextPageToken: "next",
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}
